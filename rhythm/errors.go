package rhythm

import "errors"

var (
	ErrNoTracks             = errors.New("rhythm: no tracks loaded")
	ErrTrackIndexOutOfRange = errors.New("rhythm: active track index out of range")
	ErrTrackNotFound        = errors.New("rhythm: track source not found")
	ErrInvalidBPM           = errors.New("rhythm: beats per minute must be positive")
	ErrInvalidConfig        = errors.New("rhythm: invalid config")
)
