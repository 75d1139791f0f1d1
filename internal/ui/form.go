package ui

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/report"
)

// ErrFormCancelled is returned when the user aborts a form
var ErrFormCancelled = stderrors.New("form cancelled")

// FormValues are the fields of the report form. Days is kept as text so
// the input can be validated as typed.
type FormValues struct {
	URL      string
	User     string
	Password string
	Token    bool // a token is configured, so user and password are optional
	Group    string
	Days     string
	Output   string
}

// PeriodDays parses Days
func (v FormValues) PeriodDays() (int, error) {
	return ParseDays(v.Days)
}

// ParseDays parses a positive whole number of days
func ParseDays(s string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("the period must be a positive whole number of days")
	}
	return days, nil
}

func validateDays(s string) error {
	_, err := ParseDays(s)
	return err
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// ValidateURL accepts http and https URLs with a host
func ValidateURL(s string) error {
	if err := required("server URL")(s); err != nil {
		return err
	}
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter an http(s) URL such as https://zabbix.example.com")
	}
	return nil
}

// buildReportForm asks for the connection and the report selection
func buildReportForm(v *FormValues) *huh.Form {
	userField := huh.NewInput().
		Title("API user").
		Value(&v.User)
	passwordField := huh.NewInput().
		Title("API password").
		EchoMode(huh.EchoModePassword).
		Value(&v.Password)
	if !v.Token {
		userField.Validate(required("API user"))
		passwordField.Validate(required("API password"))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Zabbix server URL").
				Placeholder("https://zabbix.example.com").
				Value(&v.URL).
				Validate(ValidateURL),
			userField,
			passwordField,
		).Title("Zabbix connection"),
		huh.NewGroup(
			huh.NewInput().
				Title("Host group name").
				Value(&v.Group).
				Validate(required("host group name")),
			huh.NewInput().
				Title("Period (days)").
				Value(&v.Days).
				Validate(validateDays),
		).Title("Report"),
	)
}

// buildOutputForm asks where to save the PDF. An empty answer cancels.
func buildOutputForm(v *FormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Save report as").
				Description("Leave empty to cancel").
				Value(&v.Output),
		),
	)
}

// RunReportForm shows the connection and report inputs, prefilled from v
func RunReportForm(v *FormValues) error {
	if strings.TrimSpace(v.Days) == "" {
		v.Days = "30"
	}
	return runForm(buildReportForm(v))
}

// RunOutputForm asks for the output path, suggesting one from the group
func RunOutputForm(v *FormValues) error {
	if strings.TrimSpace(v.Output) == "" {
		v.Output = report.DefaultFilename(v.Group)
	}
	return runForm(buildOutputForm(v))
}

// Confirm asks a yes/no question
func Confirm(title string, value *bool) error {
	return runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(value),
		),
	))
}

func runForm(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return ErrFormCancelled
		}
		return err
	}
	return nil
}
