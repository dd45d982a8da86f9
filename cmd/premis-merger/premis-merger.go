package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/diwise/premis-registry/pkg/datamodels/loc"
	"github.com/diwise/premis-registry/pkg/premis"
	"github.com/diwise/premis-registry/pkg/premis/document"
	"github.com/diwise/premis-registry/pkg/premis/types"
	"github.com/diwise/premis-registry/pkg/premis/types/decorators"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

const appName string = "premis-merger"

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	var outputPath string
	var recordEvent bool

	flag.StringVar(&outputPath, "output", "", "write the merged document to this path instead of stdout")
	flag.BoolVar(&recordEvent, "record-event", false, "add an aggregation event linking every merged object")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Error("no input documents to merge")
		os.Exit(1)
	}

	merged, err := merge(ctx, flag.Args(), recordEvent)
	if err != nil {
		log.Error("failed to merge documents", "err", err.Error())
		os.Exit(1)
	}

	err = write(merged, outputPath)
	if err != nil {
		log.Error("failed to write merged document", "err", err.Error())
		os.Exit(1)
	}

	log.Info("done merging", slog.Int("documents", flag.NArg()), slog.Int("records", merged.Size()))
}

func merge(ctx context.Context, paths []string, recordEvent bool) (*premis.Aggregate, error) {
	log := logging.GetFromContext(ctx)

	merged, err := premis.New(premis.FromFile(paths[0]))
	if err != nil {
		return nil, err
	}

	log.Debug("document read", slog.String("path", paths[0]), slog.Int("records", merged.Size()))

	for _, path := range paths[1:] {
		doc, err := document.NewFromFile(path)
		if err != nil {
			return nil, err
		}

		err = merged.ImportFrom(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		log.Debug("document merged", slog.String("path", path), slog.Int("records", merged.Size()))
	}

	if recordEvent {
		err = merged.AddEvent(aggregationEvent(merged))
		if err != nil {
			return nil, err
		}
	}

	return merged, nil
}

func write(a *premis.Aggregate, path string) error {
	if path == "" {
		return a.Write(os.Stdout, document.Indent("  "))
	}

	return a.WriteFile(path, document.Indent("  "))
}

// aggregationEvent describes the merge itself, linking to every object in
// the merged aggregate.
func aggregationEvent(a *premis.Aggregate) *types.Event {
	eventDecorators := []types.EventDecoratorFunc{
		decorators.EventDetail(fmt.Sprintf("merged by %s", appName)),
		decorators.EventOutcome(loc.OutcomeSuccess),
	}

	for _, o := range a.Objects() {
		eventDecorators = append(eventDecorators, decorators.LinkingObject(o.ObjectIdentifiers[0]))
	}

	return types.NewEvent(
		types.NewUUIDIdentifier(),
		loc.EventTypeAggregation,
		time.Now().UTC().Format(time.RFC3339),
		eventDecorators...,
	)
}
