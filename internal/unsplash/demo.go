package unsplash

import (
	"net/url"
	"strconv"
	"time"
)

var demoImages = []string{
	"https://images.unsplash.com/photo-1470770841072-f978cf4d019e",
	"https://images.unsplash.com/photo-1470071459604-3b5ec3a7fe05",
	"https://images.unsplash.com/photo-1497449493050-aad1e7cad165",
	"https://images.unsplash.com/photo-1472214103451-9374bd1c798e",
	"https://images.unsplash.com/photo-1429516387459-9891b7b96c78",
	"https://images.unsplash.com/photo-1433086966358-54859d0ed716",
	"https://images.unsplash.com/photo-1501854140801-50d01698950b",
	"https://images.unsplash.com/photo-1441974231531-c6227db76b6e",
}

// demoPhoto fabricates a response from the built-in list. The rate limit
// headers mimic a fresh demo key.
func demoPhoto(query string, pick int, now time.Time) (Photo, RateLimit) {
	base := demoImages[pick%len(demoImages)]
	values := url.Values{}
	if query != "" {
		values.Set("q", query)
	}
	imageURL := base
	if encoded := values.Encode(); encoded != "" {
		imageURL += "?" + encoded
	}
	photo := Photo{
		ID:          "demo-" + strconv.Itoa(pick%len(demoImages)),
		Description: "Demo photo (" + query + ")",
		URLs:        URLs{Full: imageURL},
		User:        User{Name: "Unsplash"},
		Links:       Links{HTML: base},
	}
	limits := RateLimit{
		Limit:     "50",
		Remaining: "49",
		Reset:     strconv.FormatInt(now.Add(time.Hour).Unix(), 10),
	}
	return photo, limits
}
