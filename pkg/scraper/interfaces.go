package scraper

// GalleryClient defines the interface for gallery page and CDN operations
type GalleryClient interface {
	FetchPage(pageURL string) ([]byte, error)
	DownloadImage(imageURL string) ([]byte, error)
	ProbeAsset(probeURL string) (bool, error)
}
