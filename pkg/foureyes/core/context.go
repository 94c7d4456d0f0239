package core

type ctxKey string

// CtxKeyUsername carries the authenticated operator's username; the
// transport layer uses it as the maker or checker identity.
const CtxKeyUsername ctxKey = ctxKey("username")
