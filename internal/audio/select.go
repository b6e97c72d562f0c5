package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Selection is the resolved input source. Warning is set when the preferred
// source was skipped.
type Selection struct {
	Device   Device
	Warning  string
	Fallback bool
}

// SelectDevice lists live sources and applies Choose.
func SelectDevice(ctx context.Context, input, fallback string) (Selection, error) {
	devices, err := ListDevices(ctx)
	if err != nil {
		return Selection{}, err
	}
	return Choose(devices, input, fallback)
}

// Choose resolves the input and fallback selectors against devices. A
// selector is "default" (or empty) for the server default, otherwise a
// case-insensitive substring of the device id or description.
func Choose(devices []Device, input, fallback string) (Selection, error) {
	if len(devices) == 0 {
		return Selection{}, errors.New("no audio input devices found")
	}

	primary, err := find(devices, input)
	if err != nil {
		return Selection{}, fmt.Errorf("audio.input: %w", err)
	}
	if primary.Usable() {
		return Selection{Device: primary}, nil
	}

	reason := "unavailable"
	if primary.Muted {
		reason = "muted"
	}

	backup, err := find(devices, fallback)
	if err != nil {
		return Selection{}, fmt.Errorf("input %q is %s and audio.fallback: %w", primary.ID, reason, err)
	}
	switch {
	case !backup.Available:
		return Selection{}, fmt.Errorf("audio fallback device %q is not available", backup.ID)
	case backup.Muted:
		return Selection{}, fmt.Errorf("audio fallback device %q is muted", backup.ID)
	}

	return Selection{
		Device:   backup,
		Warning:  fmt.Sprintf("audio.input %q is %s; falling back to %q", primary.ID, reason, backup.ID),
		Fallback: backup.ID != primary.ID,
	}, nil
}

func find(devices []Device, selector string) (Device, error) {
	selector = strings.ToLower(strings.TrimSpace(selector))
	if selector == "" || selector == "default" {
		for _, d := range devices {
			if d.Default {
				return d, nil
			}
		}
		return Device{}, errors.New("default audio source is unavailable")
	}
	for _, d := range devices {
		if matches(d, selector) {
			return d, nil
		}
	}
	return Device{}, fmt.Errorf("%q did not match any device", selector)
}

func matches(d Device, term string) bool {
	return term != "" &&
		(strings.Contains(strings.ToLower(d.ID), term) || strings.Contains(strings.ToLower(d.Description), term))
}
