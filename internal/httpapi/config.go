package httpapi

// CORSOptions configures CORS behavior. If disabled, no CORS middleware is added.
type CORSOptions struct {
	Enabled        bool
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// MuxOptions configures the middleware stack assembled by NewMux.
type MuxOptions struct {
	// TraceHeader is read for inbound trace ids and set on responses.
	TraceHeader string
	// CaptureBody tees request bodies so failures can log them in full.
	CaptureBody  bool
	MaxBodyBytes int64
	CORS         CORSOptions
}
