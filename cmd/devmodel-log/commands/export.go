package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/devmodel/devmodel-go/pkg/log"
)

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	case "yaml":
		return exportYAML(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv, yaml)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

// yamlEvent is the flattened document shape of the yaml export.
type yamlEvent struct {
	Timestamp string `yaml:"timestamp"`
	BootID    string `yaml:"boot_id"`
	Category  string `yaml:"category"`
	Bus       string `yaml:"bus,omitempty"`
	Device    string `yaml:"device,omitempty"`
	Driver    string `yaml:"driver,omitempty"`
	Type      string `yaml:"type"`
	Detail    string `yaml:"detail,omitempty"`
}

func exportYAML(reader *log.Reader, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		eventType, detail := describe(event)
		doc := yamlEvent{
			Timestamp: event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			BootID:    event.BootID,
			Category:  event.Category.String(),
			Bus:       event.Bus,
			Device:    event.Device,
			Driver:    event.Driver,
			Type:      eventType,
			Detail:    detail,
		}
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "boot_id", "category", "bus", "device", "driver", "type", "detail"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		eventType, detail := describe(event)
		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.BootID,
			event.Category.String(),
			event.Bus,
			event.Device,
			event.Driver,
			eventType,
			detail,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

// describe returns a short type tag and a one-line detail for the event.
func describe(event log.Event) (string, string) {
	switch {
	case event.Registration != nil:
		return event.Registration.Kind.String(), strconv.Itoa(event.Registration.Matches)
	case event.Probe != nil:
		if event.Probe.Success {
			return "probe", "ok"
		}
		return "probe", event.Probe.Err
	case event.Remove != nil:
		return "remove", event.Remove.Err
	case event.Initcall != nil:
		return "initcall", fmt.Sprintf("%s+%d %s=%d", event.Initcall.LevelName, event.Initcall.Offset, event.Initcall.Name, event.Initcall.Code)
	case event.IRQ != nil:
		return event.IRQ.Action.String(), fmt.Sprintf("%d %s", event.IRQ.IRQ, event.IRQ.Name)
	case event.Boot != nil:
		return "boot", event.Boot.NewState
	case event.Error != nil:
		return "error", event.Error.Message
	}
	return "unknown", ""
}
