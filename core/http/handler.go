package http

// Handler produces the response for a request. It must call WriteHeader (or
// Answer/NotFound) exactly once, write exactly the declared number of body
// bytes and flush before returning. A returned error is only logged; the
// server never writes to w after the handler has been invoked.
type Handler func(req *Request, w *ResponseWriter) error
