package tides

import (
	"fmt"
	"time"
)

// Kind classifies a tide sample. The zero value means the sample carries no
// classification.
type Kind uint8

const (
	Untagged Kind = iota
	High
	Low
)

func (k Kind) String() string {
	switch k {
	case High:
		return "high"
	case Low:
		return "low"
	default:
		return "untagged"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(buf []byte) error {
	switch string(buf) {
	case "high":
		*k = High
	case "low":
		*k = Low
	case "untagged", "":
		*k = Untagged
	default:
		return fmt.Errorf("invalid tide kind %q", buf)
	}
	return nil
}

// Sample is a single water height, optionally tagged as a high or low by the
// provider that produced it.
type Sample struct {
	Time   time.Time
	Height float64 // meters
	Kind   Kind
}

// Event is a high or low tide.
type Event struct {
	Time   time.Time `json:"time"`
	Height float64   `json:"height"` // meters
	Kind   Kind      `json:"kind"`
}

func (e Event) String() string {
	return fmt.Sprintf("{t: %s, v: %f, type: %s}", e.Time.Format(time.RFC822), e.Height, e.Kind)
}
