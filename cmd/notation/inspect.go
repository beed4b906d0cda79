package main

import (
	"os"
	"slices"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/spf13/cobra"
	"github.com/tabnotation/notation/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const reportTemplate = `{{ define "lane" }}    {{ printf "%-8s" .Track.ID }}{{ range entries . }} {{ .Proto }}{{ if tied . }}~{{ .TiedUnits }}{{ end }}{{ end }}
{{ end }}Tab {{ .UUID }}
  {{ .Meta }} | bar {{ .BarUnits }} | {{ .NumBars }} bars
Tracks:
{{ range .Tracks }}  {{ .Index }} {{ .ID | quote }} {{ .Kind }} ({{ .Len }} entries)
{{ end }}Sections:
{{ range .Sections }}  {{ .Index }} {{ .ID | quote }} {{ title .Kind.String }} ({{ .NumBars }} bars)
{{ end }}Form: {{ formIDs .Tab | join " " }}
{{ with .Diagnostics }}Diagnostics:
{{ range . }}  {{ . }}
{{ end }}{{ end }}{{ if .ShowBars }}Bars:
{{ range .Bars }}  {{ .Props.BarNumber | printf "%3d" }} {{ .Section.ID }}{{ if gt .Props.SectionRound 1 }} x{{ .Props.SectionRound }}{{ end }}
{{ range .Lanes }}{{ if .Len }}{{ template "lane" . }}{{ end }}{{ end }}{{ end }}{{ end }}`

type report struct {
	*model.Tab
	ShowBars bool
}

var showBars bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [file ...]",
	Short: "Print a summary of tab documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := newReportTemplate()
		if err != nil {
			return err
		}
		for _, path := range args {
			tab, err := loadTab(path)
			if err != nil {
				return err
			}
			if err := tmpl.Execute(os.Stdout, report{Tab: tab, ShowBars: showBars}); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVarP(&showBars, "bars", "b", false, "Also print every bar with its lanes.")
	rootCmd.AddCommand(inspectCmd)
}

func newReportTemplate() (*template.Template, error) {
	caser := cases.Title(language.English)
	funcs := sprig.TxtFuncMap()
	funcs["title"] = caser.String
	funcs["entries"] = func(l *model.BarLane) []*model.LaneEntry { return slices.Collect(l.Entries()) }
	funcs["tied"] = func(e *model.LaneEntry) bool { return e.TiedUnits().IsBiggerThan(e.Duration().Units()) }
	funcs["formIDs"] = func(t *model.Tab) []string {
		var ids []string
		for _, s := range t.Form().Sections() {
			ids = append(ids, s.ID())
		}
		return ids
	}
	return template.New("report").Funcs(funcs).Parse(reportTemplate)
}
