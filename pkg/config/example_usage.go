package config

// Example usage of the configuration system:
//
// 1. Load configuration with all sources:
//
//     config, err := config.Load("", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 2. Load with custom config file:
//
//     config, err := config.Load("/path/to/config.yaml", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 3. Load with command line flags:
//
//     flags := map[string]interface{}{
//         "url": "https://riftbound.leagueoflegends.com/en-us/tcg-cards/",
//         "output": "./cards",
//         "prefixes": []string{"OGN", "OGS"},
//         "start": 50,
//         "log-level": "debug",
//     }
//     config, err := config.Load("", flags)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 4. Programmatic configuration:
//
//     config := config.DefaultConfig()
//     config.Output.BaseDirectory = "./cards"
//     config.Fallback.Prefixes = []string{"OGN"}
//     config.Fallback.MissLimit = 5
//
//     if err := config.Validate(); err != nil {
//         log.Fatal(err)
//     }
//
// 5. Save configuration to file:
//
//     if err := config.Save(".riftscraper.yaml"); err != nil {
//         log.Fatal(err)
//     }
//
// 6. Environment variables:
//
//     export RIFTSCRAPER_PAGE_URL="https://riftbound.leagueoflegends.com/en-us/tcg-cards/"
//     export RIFTSCRAPER_OUTPUT_DIR="./images"
//     export RIFTSCRAPER_PREFIXES="OGN,OGS"
//     export RIFTSCRAPER_START_INDEX="1"
//     export RIFTSCRAPER_MISS_LIMIT="3"
//     export RIFTSCRAPER_NOTIFICATIONS_ENABLED="true"
//     export RIFTSCRAPER_LOG_LEVEL="debug"
//
// 7. Using configuration in your application:
//
//     // Create gallery client with config
//     client := riftbound.NewClient(riftbound.ClientOptions{
//         UserAgent:       config.Scraper.UserAgent,
//         PageTimeout:     config.Scraper.PageTimeout,
//         DownloadTimeout: config.Download.Timeout,
//         ProbeTimeout:    config.Fallback.ProbeTimeout,
//     }, log)
//
//     // Set up image storage
//     store, err := storage.NewManager(config.Output.BaseDirectory)
//     if err != nil {
//         log.Fatal(err)
//     }
