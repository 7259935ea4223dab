// FILE: lixenwraith/dataobject/example/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lixenwraith/dataobject"
)

// Profile is decoded from the final object with Scan.
type Profile struct {
	User struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	Roles []string `json:"roles"`
	Debug bool     `json:"debug"`
}

func main() {
	// =========================================================================
	// PART 1: CONSTRUCTION AND PATHS
	// =========================================================================
	obj, err := dataobject.Of(map[string]any{
		"user": map[string]any{
			"name":  "John Doe",
			"email": "john@example.com",
		},
		"roles": []string{"admin", "guest"},
	})
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	obj.Set("settings.theme.color", "dark")
	fmt.Println("theme:", obj.GetDefault("settings.theme.color", "light"))
	fmt.Println("first role:", obj.GetDefault("roles.0", "none"))
	fmt.Println("has settings.theme:", obj.Has("settings.theme"))

	obj.Set("nickname", "")
	fmt.Println("nickname (strict):", obj.GetMode("nickname", "anon", dataobject.Strict))
	fmt.Println("nickname (soft):", obj.GetMode("nickname", "anon", dataobject.Soft))

	if _, err := dataobject.Of([]string{"x", "y"}); err != nil {
		fmt.Println("list input rejected:", err)
	}

	// =========================================================================
	// PART 2: TRANSFORMS
	// =========================================================================
	obj.Merge(map[string]any{"user": map[string]any{"name": "Jane Doe"}})
	fmt.Println("after merge:", obj)

	flat, err := obj.Flatten("")
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	fmt.Println("flattened keys:", strings.Join(flat.Keys(), ", "))

	collapsed, err := obj.Collapse()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	fmt.Println("collapsed:", collapsed)

	shout := obj.Map([]string{"nickname"}, func(v any) any { return "NONE" })
	fmt.Println("mapped nickname:", shout.GetDefault("nickname", ""))
	fmt.Println("either:", obj.Either([]string{"nickname", "user.name"}, "nobody"))

	// =========================================================================
	// PART 3: LAYERED BUILD
	// =========================================================================
	os.Setenv("EXAMPLE_DEBUG", "true")
	defer os.Unsetenv("EXAMPLE_DEBUG")

	var profile Profile
	err = dataobject.NewBuilder().
		WithData(map[string]any{"debug": false}).
		WithData(obj).
		WithSource([]byte("user:\n  email: jane@example.com\n"), dataobject.FormatYAML).
		WithEnvPrefix("EXAMPLE_").
		WithArgs([]string{"--user.name=Janet"}).
		BuildAndScan(&profile)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	fmt.Printf("profile: %+v\n", profile)

	// =========================================================================
	// PART 4: SERIALIZATION
	// =========================================================================
	yamlText, err := obj.Encode(dataobject.FormatYAML)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	fmt.Printf("yaml:\n%s", yamlText)
	fmt.Println("hash:", obj.Hash())
}
