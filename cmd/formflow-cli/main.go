package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/provider"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

func main() {
	schemaSource := flag.String("schema", "", "form schema path or URL (JSON/YAML); skips the provider login")
	roll := flag.String("roll", "", "roll number used to log in against the form provider")
	name := flag.String("name", "", "name used when registering the roll number")
	output := flag.String("output", "", "write the submission JSON to a file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	schemaProvider, userID, err := buildProvider(ctx, *schemaSource, *roll, *name)
	if err != nil {
		log.Fatalf("Failed to configure form source: %v", err)
	}

	sink := session.SinkFunc(func(_ context.Context, bundle session.Submission) error {
		payload, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return err
		}
		if *output != "" {
			if err := os.WriteFile(*output, payload, 0o644); err != nil {
				return err
			}
			fmt.Printf("Submission written to %s\n", *output)
			return nil
		}
		fmt.Println(string(payload))
		return nil
	})

	sess := session.New(schemaProvider, session.WithSink(sink))
	if err := sess.Start(ctx, userID); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	defer sess.Close()

	runner, err := tui.New()
	if err != nil {
		log.Fatalf("Failed to build prompt runner: %v", err)
	}
	if err := runner.Run(ctx, sess); err != nil {
		log.Fatalf("Session ended with error: %v", err)
	}
}

// buildProvider picks between a local/remote schema document and the form
// provider API. With -schema the roll number is optional and only used to
// label the submission.
func buildProvider(ctx context.Context, schemaSource, roll, name string) (session.SchemaProvider, string, error) {
	if schemaSource != "" {
		src := schema.ParseSource(schemaSource)
		if src == nil {
			return nil, "", fmt.Errorf("invalid schema source %q", schemaSource)
		}
		loader := schema.NewLoader(schema.LoaderOptions{AllowHTTPFallback: true})
		userID := roll
		if userID == "" {
			userID = "local"
		}
		return sourceProvider{loader: loader, src: src}, userID, nil
	}

	if roll == "" || name == "" {
		return nil, "", fmt.Errorf("either -schema or both -roll and -name are required")
	}

	client, err := provider.NewFromEnv()
	if err != nil {
		return nil, "", err
	}
	if _, err := client.CreateUser(ctx, model.User{RollNumber: roll, Name: name}); err != nil {
		return nil, "", err
	}
	return client, roll, nil
}

type sourceProvider struct {
	loader *schema.Loader
	src    schema.Source
}

func (p sourceProvider) FetchForm(ctx context.Context, _ string) (model.Form, error) {
	return p.loader.LoadForm(ctx, p.src)
}
