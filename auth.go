package pluct

import "net/http"

// Auth is an Authorization credential, sent as "<Type> <Credentials>".
type Auth struct {
	Type        string
	Credentials string
}

func (a Auth) String() string { return a.Type + " " + a.Credentials }

type requestOptions struct {
	auth    *Auth
	headers http.Header
}

// RequestOption configures a single Get.
type RequestOption func(*requestOptions)

// WithAuth attaches an Authorization header built from a, along with
// content-type: application/json.
func WithAuth(a Auth) RequestOption {
	return func(o *requestOptions) { o.auth = &a }
}

// WithHeader adds an extra request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Add(key, value)
	}
}

func (o *requestOptions) apply(req *http.Request) {
	for k, vs := range o.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if o.auth != nil {
		req.Header.Set("content-type", "application/json")
		req.Header.Set("Authorization", o.auth.String())
	}
}
