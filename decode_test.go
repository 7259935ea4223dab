// FILE: lixenwraith/dataobject/decode_test.go
package dataobject

import (
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanWithComplexTypes tests scanning with various complex types
func TestScanWithComplexTypes(t *testing.T) {
	type NetworkConfig struct {
		IP      net.IP        `json:"ip"`
		IPNet   *net.IPNet    `json:"subnet"`
		URL     *url.URL      `json:"endpoint"`
		Timeout time.Duration `json:"timeout"`
		Retry   struct {
			Count    int           `json:"count"`
			Interval time.Duration `json:"interval"`
		} `json:"retry"`
	}

	type AppConfig struct {
		Network NetworkConfig     `json:"network"`
		Tags    []string          `json:"tags"`
		Ports   []int             `json:"ports"`
		Labels  map[string]string `json:"labels"`
		Started time.Time         `json:"started"`
	}

	obj := New().
		Set("network.ip", "192.168.1.100").
		Set("network.subnet", "192.168.1.0/24").
		Set("network.endpoint", "https://api.example.com:8443/v1").
		Set("network.timeout", "2m30s").
		Set("network.retry.count", int64(5)).
		Set("network.retry.interval", "10s").
		Set("tags", "prod,staging,test").
		Set("ports", []any{int64(80), int64(443), int64(8080)}).
		Set("labels", map[string]any{"env": "production", "version": "1.2.3"}).
		Set("started", "2024-05-01T10:00:00Z")

	var result AppConfig
	require.NoError(t, obj.Scan("", &result))

	assert.Equal(t, "192.168.1.100", result.Network.IP.String())
	assert.Equal(t, "192.168.1.0/24", result.Network.IPNet.String())
	assert.Equal(t, "https://api.example.com:8443/v1", result.Network.URL.String())
	assert.Equal(t, 150*time.Second, result.Network.Timeout)
	assert.Equal(t, 5, result.Network.Retry.Count)
	assert.Equal(t, 10*time.Second, result.Network.Retry.Interval)
	assert.Equal(t, []string{"prod", "staging", "test"}, result.Tags)
	assert.Equal(t, []int{80, 443, 8080}, result.Ports)
	assert.Equal(t, "production", result.Labels["env"])
	assert.Equal(t, "1.2.3", result.Labels["version"])
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), result.Started.UTC())
}

// TestScanWithBasePath tests scanning from nested paths
func TestScanWithBasePath(t *testing.T) {
	type ServerConfig struct {
		Host    string `json:"host"`
		Port    int    `json:"port"`
		Enabled bool   `json:"enabled"`
	}

	obj := New().
		Set("app.server.host", "appserver").
		Set("app.server.port", "9000").
		Set("app.server.enabled", 1).
		Set("app.database.host", "dbhost").
		Set("app.name", "svc")

	t.Run("Section", func(t *testing.T) {
		var server ServerConfig
		require.NoError(t, obj.Scan("app.server", &server))
		assert.Equal(t, "appserver", server.Host)
		assert.Equal(t, 9000, server.Port, "weak typing converts strings")
		assert.True(t, server.Enabled)
	})

	t.Run("TrailingDelimiter", func(t *testing.T) {
		var server ServerConfig
		require.NoError(t, obj.Scan("app.database.", &server))
		assert.Equal(t, "dbhost", server.Host)
	})

	t.Run("MissingSectionIsEmpty", func(t *testing.T) {
		empty := ServerConfig{Host: "preset", Port: 1}
		require.NoError(t, obj.Scan("app.nonexistent", &empty))
		assert.Equal(t, "preset", empty.Host, "absent fields keep their value")
		assert.Equal(t, 1, empty.Port)
	})

	t.Run("ScalarSection", func(t *testing.T) {
		var server ServerConfig
		err := obj.Scan("app.name", &server)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "non-record value")
	})

	t.Run("IntoMap", func(t *testing.T) {
		out := map[string]any{"stale": true}
		require.NoError(t, obj.Scan("app.server", &out))
		assert.Equal(t, "appserver", out["host"])
		assert.NotContains(t, out, "stale", "maps are zeroed before decoding")
	})
}

// TestScanWithTag tests decoding with an alternate struct tag
func TestScanWithTag(t *testing.T) {
	type Config struct {
		Name string `yaml:"app_name" json:"name"`
	}

	obj := MustOf(RecordOf("app_name", "fromyaml", "name", "fromjson"))

	var byYAML Config
	require.NoError(t, obj.ScanWithTag("", "yaml", &byYAML))
	assert.Equal(t, "fromyaml", byYAML.Name)

	var byJSON Config
	require.NoError(t, obj.Scan("", &byJSON))
	assert.Equal(t, "fromjson", byJSON.Name)
}

// TestInvalidScanTargets tests error cases for scanning
func TestInvalidScanTargets(t *testing.T) {
	obj := MustOf(RecordOf("test", "value"))

	tests := []struct {
		name      string
		target    any
		expectErr string
	}{
		{"NilPointer", nil, "must be non-nil pointer"},
		{"NonPointer", "not-a-pointer", "must be non-nil pointer"},
		{"NilStructPointer", (*struct{})(nil), "must be non-nil pointer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := obj.Scan("", tt.target)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
		})
	}
}

// TestCustomTypeConversion tests edge cases in type conversion
func TestCustomTypeConversion(t *testing.T) {
	t.Run("InvalidIPAddress", func(t *testing.T) {
		type Config struct {
			IP net.IP `json:"ip"`
		}

		var result Config
		err := MustOf(RecordOf("ip", "not-an-ip")).Scan("", &result)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid IP address")
	})

	t.Run("InvalidCIDR", func(t *testing.T) {
		type Config struct {
			Network *net.IPNet `json:"network"`
		}

		var result Config
		err := MustOf(RecordOf("network", "invalid-cidr")).Scan("", &result)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid CIDR")
	})

	t.Run("OverlongURL", func(t *testing.T) {
		type Config struct {
			URL url.URL `json:"url"`
		}

		long := make([]byte, 2100)
		for i := range long {
			long[i] = 'a'
		}

		var result Config
		err := MustOf(RecordOf("url", "https://"+string(long))).Scan("", &result)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "URL too long")
	})

	t.Run("InvalidDuration", func(t *testing.T) {
		type Config struct {
			Timeout time.Duration `json:"timeout"`
		}

		var result Config
		err := MustOf(RecordOf("timeout", "soon")).Scan("", &result)
		assert.Error(t, err)
	})

	t.Run("NestedObjectsDecoded", func(t *testing.T) {
		type Inner struct {
			K string `json:"k"`
		}
		type Config struct {
			Child Inner `json:"child"`
		}

		obj := New().Set("child", MustOf(RecordOf("k", "v")))
		var result Config
		require.NoError(t, obj.Scan("", &result))
		assert.Equal(t, "v", result.Child.K)
	})
}

// TestStructRoundTrip tests struct in, struct out through the json tags
func TestStructRoundTrip(t *testing.T) {
	type Limits struct {
		Max int     `json:"max"`
		Avg float64 `json:"avg"`
	}
	type Service struct {
		Name   string   `json:"name"`
		Hosts  []string `json:"hosts"`
		Limits Limits   `json:"limits"`
	}

	in := Service{Name: "svc", Hosts: []string{"a", "b"}, Limits: Limits{Max: 10, Avg: 2.5}}
	obj, err := Of(in)
	require.NoError(t, err)
	assert.Equal(t, 10, obj.GetDefault("limits.max", nil))

	var out Service
	require.NoError(t, obj.Scan("", &out))
	assert.Equal(t, in, out)
}
