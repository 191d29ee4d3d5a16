// Package rtc builds the WebRTC configuration handed to browsers. The server
// never opens a peer connection itself.
package rtc

import (
	"strings"

	"github.com/pion/webrtc/v4"
)

// ClientConfig is the JSON body clients pass to new RTCPeerConnection.
type ClientConfig struct {
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

// Configuration turns configured URLs into ICE servers, one per URL. Blank
// entries are skipped.
func Configuration(urls []string) webrtc.Configuration {
	servers := make([]webrtc.ICEServer, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		servers = append(servers, webrtc.ICEServer{URLs: []string{u}})
	}
	return webrtc.Configuration{ICEServers: servers}
}

func NewClientConfig(urls []string) ClientConfig {
	return ClientConfig{ICEServers: Configuration(urls).ICEServers}
}
