package contextkeys

type contextKey string

// DBContextKey is the key under which the request-scoped *gorm.DB is stored.
const DBContextKey = contextKey("db")

// ActorContextKey is the key under which the authenticated caller is stored.
const ActorContextKey = contextKey("actor")
