package discovery

import "github.com/lone-faerie/mqttmiio/internal/build"

// Origin identifies the bridge in the discovery payload.
type Origin struct {
	Name       string `json:"name"`
	SWVersion  string `json:"sw,omitempty"`
	SupportURL string `json:"url,omitempty"`
}

func NewOrigin() *Origin {
	o := &Origin{
		Name:       "mqttmiio",
		SWVersion:  build.Version(),
		SupportURL: "https://" + build.Package(),
	}
	return o
}
