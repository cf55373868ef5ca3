package store

type StoreSettings struct {
	URI        string            `json:"uri,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
}
