package core

import (
	"errors"
	"fmt"

	"github.com/signalsfoundry/mostlyharmless/model"
)

var (
	// ErrParse matches any *ParseError via errors.Is.
	ErrParse = errors.New("malformed sexagesimal angle")
	// ErrConfiguration matches any *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("invalid region configuration")
)

// ParseError reports sexagesimal text that the orbit source should never
// have produced.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse angle %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ConfigurationError reports a region boundary that cannot be used for
// classification. It is raised while building polygons, never afterwards.
type ConfigurationError struct {
	Region model.RegionName
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("region %q: %s", e.Region, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
