package pagination

// PageDefaultSize is the fallback page size for endpoints that do not set
// their own default.
const PageDefaultSize = 20

// PageMaxSize is the maximum allowed page size
const PageMaxSize = 100
