package unsplash

// Photo is the subset of the /photos/random payload backdrop uses.
type Photo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	AltDesc     string `json:"alt_description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	URLs        URLs   `json:"urls"`
	User        User   `json:"user"`
	Links       Links  `json:"links"`
}

// URLs lists the renditions of a photo.
type URLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
}

// User is the photographer.
type User struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Links holds the photo's Unsplash page.
type Links struct {
	HTML     string `json:"html"`
	Download string `json:"download"`
}

// ImageURL picks the best rendition: full, then regular, then raw.
func (p Photo) ImageURL() string {
	switch {
	case p.URLs.Full != "":
		return p.URLs.Full
	case p.URLs.Regular != "":
		return p.URLs.Regular
	default:
		return p.URLs.Raw
	}
}

// Title is a short human label for the photo.
func (p Photo) Title() string {
	switch {
	case p.Description != "":
		return p.Description
	case p.AltDesc != "":
		return p.AltDesc
	default:
		return p.ID
	}
}

// RateLimit carries the X-Ratelimit-* headers verbatim; empty means the
// header was absent.
type RateLimit struct {
	Limit     string
	Remaining string
	Reset     string
}
