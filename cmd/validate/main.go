package main

import (
	"fmt"
	"os"
	"regexp"

	"github.com/jwebster45206/adventure-engine/pkg/delta"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// Checks a world fixture file before it ships: JSON/YAML shape, the
// referential-integrity invariants, and snake_case ID conventions.
// With -schema, prints the delta JSON Schema instead.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <fixture.json|fixture.yaml> | -schema\n", os.Args[0])
		os.Exit(1)
	}

	if os.Args[1] == "-schema" {
		schema, err := delta.SchemaJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render schema: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(schema))
		return
	}

	filename := os.Args[1]
	fmt.Printf("Validating %s...\n", filename)

	gs, err := world.LoadFixture(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	if errs := checkIDConventions(gs); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		fmt.Fprintf(os.Stderr, "Validation failed: %d convention error(s)\n", len(errs))
		os.Exit(1)
	}

	fmt.Println("Fixture is valid!")
}

var snakeCaseID = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// checkIDConventions enforces lowercase snake_case IDs so fixture authors
// and the oracle prompt agree on naming.
func checkIDConventions(gs *world.State) []string {
	var errs []string

	check := func(kind, id string) {
		if !snakeCaseID.MatchString(id) {
			errs = append(errs, fmt.Sprintf("%s ID %q must be lowercase snake_case (e.g. forest_path)", kind, id))
		}
	}

	for id := range gs.Locations {
		check("location", id)
	}
	for id := range gs.Items {
		check("item", id)
	}
	for id := range gs.NPCs {
		check("NPC", id)
	}
	for id := range gs.Quests {
		check("quest", id)
	}
	return errs
}
