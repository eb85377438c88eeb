package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/chazu/airframe/pkg/component"
	"github.com/chazu/airframe/pkg/geom"
)

type designOutput struct {
	File  string       `yaml:"file"`
	Roots []rootOutput `yaml:"roots"`
}

type rootOutput struct {
	Name      string                `yaml:"name"`
	Format    string                `yaml:"format"`
	Mass      float64               `yaml:"mass"`
	MassUnits string                `yaml:"mass_units,omitempty"`
	CG        geom.Vec3             `yaml:"cg"`
	TotalCost float64               `yaml:"total_cost"`
	Rows      []component.ReportRow `yaml:"rows"`
	Artifacts string                `yaml:"artifacts,omitempty"` // joined by export.separator
}

func writeYAML(w io.Writer, results []designOutput) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}

func writeTable(w io.Writer, results []designOutput) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range results {
		for _, r := range d.Roots {
			fmt.Fprintf(tw, "# %s: %s (%s)\n", d.File, r.Name, r.Format)
			fmt.Fprintln(tw, "NAME\tID\tUNITS\tUNIT COST\tTOTAL\tVENDOR\tSUBCOMPONENTS")
			for _, row := range r.Rows {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\t%s\t%s\n",
					row.Name, row.ID, row.Units, row.UnitCost, row.TotalCost, row.Vendor, row.Subcomponents)
			}
			fmt.Fprintf(tw, "\t\t\t\t%.2f\t\t\n", r.TotalCost)
			fmt.Fprintf(tw, "mass %g %s, cg %s\n", r.Mass, r.MassUnits, r.CG)
			if r.Artifacts != "" {
				fmt.Fprintf(tw, "wrote %s\n", r.Artifacts)
			}
			fmt.Fprintln(tw)
		}
	}
	return tw.Flush()
}
