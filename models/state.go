package models

// StateEntry is one leaf read from the store. Data is base64 of the raw
// record bytes, as the REST API returns it.
type StateEntry struct {
	Address string `json:"address"`
	Data    string `json:"data"`
}

// StateList is a listing of a state subtree at a given chain head.
type StateList struct {
	Head    string       `json:"head"`
	Entries []StateEntry `json:"data"`
}
