package command

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type MessageType string

const (
	// VoiceText carries text already recognized by the speech-to-text client.
	VoiceText MessageType = "voiceText"
)

// Message is what remote clients send over the control websocket.
type Message struct {
	Type MessageType `json:"type"`
	Text string      `json:"text,omitempty"`
}

func Unmarshal(raw []byte) (msg *Message, err error) {
	msg = &Message{}
	err = json.Unmarshal(raw, msg)
	return
}
