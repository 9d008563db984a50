package publishclient

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v2"

	"github.com/nais/azpublish/pkg/publish"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

type table struct {
	header []string
	rows   [][]string
}

func render(w io.Writer, format string, value any, t table) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)

	case OutputYAML:
		data, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err

	case OutputTable, "":
		if len(t.rows) == 0 {
			return nil
		}
		writer := tablewriter.NewWriter(w)
		writer.SetAutoFormatHeaders(false)
		writer.SetHeader(t.header)
		writer.AppendBulk(t.rows)
		writer.Render()
		return nil
	}

	return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, format)
}

func locationsTable(locations []string) table {
	t := table{header: []string{"Name"}}
	for _, location := range locations {
		t.rows = append(t.rows, []string{location})
	}
	return t
}

func servicesTable(services []publish.ServiceSummary) table {
	t := table{header: []string{"Name", "Datacenter", "OS", "Instances"}}
	for _, service := range services {
		t.rows = append(t.rows, []string{
			service.Name,
			service.Datacenter,
			strconv.Itoa(service.OperatingSystem),
			strconv.Itoa(service.InstanceCount),
		})
	}
	return t
}
