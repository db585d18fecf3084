package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtraHeaders type is a comma seperated key=value string defined for use with Viper appconfig parsing
type ExtraHeaders map[string]string

func (e ExtraHeaders) String() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// Set Value should be a comma seperated key=value string
func (e ExtraHeaders) Set(s string) error {
	for _, header := range strings.Split(s, ",") {
		header = strings.TrimSpace(header)
		if header == "" {
			continue
		}
		name, value, found := strings.Cut(header, "=")
		if !found || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid header %q: want key=value", header)
		}
		e[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return nil
}

func (e ExtraHeaders) Type() string {
	return "ExtraHeaders"
}
