// Package unsplash fetches random photos from the Unsplash API.
//
// Client.RandomPhoto issues GET /photos/random with featured=true,
// orientation=landscape and the chosen query, authenticating with the
// "Client-ID" scheme. The X-Ratelimit-* headers are surfaced verbatim so the
// caller can feed X-Ratelimit-Remaining into the request budget.
//
// # Demo Mode
//
// Without an access key, or after the API answers 401, the client serves
// photos from a built-in list and reports a synthetic remaining count of 49.
// The switch to demo mode is sticky for the life of the client.
package unsplash
