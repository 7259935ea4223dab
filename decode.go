// FILE: lixenwraith/dataobject/decode.go
package dataobject

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DefaultTagName is the struct tag consulted when decoding into or out of structs.
const DefaultTagName = "json"

// Scan decodes the record at basePath into target, which must be a non-nil
// pointer to a struct or map. An empty basePath decodes the whole object; a
// missing basePath decodes an empty record.
func (d *DataObject) Scan(basePath string, target any) error {
	return d.ScanWithTag(basePath, DefaultTagName, target)
}

// ScanWithTag is like Scan but reads field names from the given struct tag.
func (d *DataObject) ScanWithTag(basePath, tagName string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	section := any(d.ToArray())
	if basePath = strings.TrimSuffix(basePath, Delimiter); basePath != "" {
		value, found := lookup(section, splitPath(basePath))
		if !found {
			value = NewRecord()
		}
		section = value
	}

	sectionRecord, ok := section.(*Record)
	if !ok {
		return fmt.Errorf("path %q refers to non-record value (type %T)", basePath, section)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          tagName,
		WeaklyTypedInput: true,
		DecodeHook:       getDecodeHook(),
		ZeroFields:       true,
		Metadata:         nil,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(sectionRecord.ToMap()); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", basePath, err)
	}

	return nil
}

// getDecodeHook returns the composite decode hook for all type conversions
func getDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		// Network types, length-capped before parsing
		stringParserHookFunc(45, parseIP),
		stringParserHookFunc(49, parseCIDR),
		stringParserHookFunc(2048, parseURL),

		// Standard hooks
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringParserHookFunc decodes strings into fields of type T or *T through
// parse. Inputs longer than maxLen are refused unparsed.
func stringParserHookFunc[T any](maxLen int, parse func(string) (*T, error)) mapstructure.DecodeHookFunc {
	target := reflect.TypeOf((*T)(nil)).Elem()
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		if isPtr {
			t = t.Elem()
		}
		if t != target {
			return data, nil
		}

		str := reflect.ValueOf(data).String()
		if len(str) > maxLen {
			return nil, fmt.Errorf("%s too long: %d bytes", target, len(str))
		}
		v, err := parse(str)
		if err != nil {
			return nil, err
		}
		if isPtr {
			return v, nil
		}
		return *v, nil
	}
}

func parseIP(s string) (*net.IP, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address: %s", s)
	}
	return &ip, nil
}

func parseCIDR(s string) (*net.IPNet, error) {
	_, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR: %w", err)
	}
	return ipnet, nil
}

func parseURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	return u, nil
}
