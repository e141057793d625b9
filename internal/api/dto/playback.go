package dto

// PlaybackMessage is a server frame on the playback WebSocket.
type PlaybackMessage struct {
	Type    string   `json:"type"`
	Lon     *float64 `json:"lon,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Playing *bool    `json:"playing,omitempty"`
	Error   string   `json:"error,omitempty"`
}
