package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/blockedby/application-tracker/internal/contacts"
	"github.com/blockedby/application-tracker/internal/form"
	"github.com/blockedby/application-tracker/internal/models"
)

type addOptions struct {
	country   string
	company   string
	title     string
	link      string
	published string
	applied   string
	status    string
	names     []string
	emails    []string
	domains   []string
	phones    []string
	followUps []string
	files     []string
	then      string
	dryRun    bool
}

func newAddCmd(c *cli) *cobra.Command {
	var o addOptions
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new application",
		Long: `Fill the application form from flags and submit it to the API.

Dates accept YYYY-MM-DD or dd/MM/yyyy. The publication and application dates
default to today; pass --published none to leave the publication date empty.
Invalid contact values are reported and skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := c.catalog()
			if err != nil {
				return err
			}

			var creator form.ApplicationCreator = c.client()
			if o.dryRun {
				creator = &dryRunCreator{out: cmd.OutOrStdout()}
			}

			choice, err := parseChoice(o.then)
			if err != nil {
				return err
			}
			presenter := &cliPresenter{out: cmd.OutOrStdout(), choice: choice}

			f := form.New(creator, presenter,
				form.WithCatalog(cat),
				form.WithLogger(c.log.Component("form")),
				form.WithNavigator(&listNavigator{lister: c.client(), locale: cat.Locale, out: cmd.OutOrStdout()}),
			)
			if err := fillForm(f, &o, cmd.ErrOrStderr()); err != nil {
				return err
			}

			res, err := f.Submit(cmd.Context())
			if err != nil {
				var verr *form.ValidationError
				if errors.As(err, &verr) {
					printValidation(cmd.ErrOrStderr(), verr)
				}
				return err
			}
			if res.Choice == form.ChoiceNew {
				fmt.Fprintln(cmd.OutOrStdout(), "form cleared, ready for the next application")
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&o.country, "country", "", "ISO 3166 country code (default from catalog)")
	fl.StringVar(&o.company, "company", "", "Company name")
	fl.StringVar(&o.title, "title", "", "Job title")
	fl.StringVar(&o.link, "link", "", "Job posting URL")
	fl.StringVar(&o.published, "published", "", `Publication date, or "none"`)
	fl.StringVar(&o.applied, "applied", "", "Application date (default today)")
	fl.StringVar(&o.status, "status", "", "Status value or French label")
	fl.StringArrayVar(&o.names, "name", nil, "Contact name (repeatable)")
	fl.StringArrayVar(&o.emails, "email", nil, "Contact email (repeatable)")
	fl.StringArrayVar(&o.domains, "domain", nil, "Company domain (repeatable)")
	fl.StringArrayVar(&o.phones, "phone", nil, "Contact phone (repeatable)")
	fl.StringArrayVar(&o.followUps, "follow-up", nil, "Extra follow-up date (repeatable)")
	fl.StringArrayVar(&o.files, "file", nil, "Attachment sent, from the catalog (repeatable)")
	fl.StringVar(&o.then, "then", "none", "After success: none, new or list")
	fl.BoolVar(&o.dryRun, "dry-run", false, "Print the payload instead of sending it")
	return cmd
}

// fillForm copies flags into f. Rejected contact values are reported on errOut.
func fillForm(f *form.Form, o *addOptions, errOut io.Writer) error {
	if o.country != "" {
		f.SetCountry(o.country)
	}
	f.SetCompanyName(o.company)
	f.SetJobTitle(o.title)
	f.SetJobLink(o.link)

	switch strings.ToLower(strings.TrimSpace(o.published)) {
	case "":
	case "none":
		f.SetPublicationDate(nil)
	default:
		d, err := form.ParseInputDate(o.published, time.Local)
		if err != nil {
			return fmt.Errorf("--published: %w", err)
		}
		f.SetPublicationDate(&d)
	}

	if o.applied != "" {
		d, err := form.ParseInputDate(o.applied, time.Local)
		if err != nil {
			return fmt.Errorf("--applied: %w", err)
		}
		f.SetApplicationDate(&d)
	}

	if o.status != "" {
		f.SetStatus(parseStatus(o.status))
	}

	chips := []struct {
		field  contacts.Field
		values []string
	}{
		{contacts.FieldNames, o.names},
		{contacts.FieldEmails, o.emails},
		{contacts.FieldDomains, o.domains},
		{contacts.FieldPhones, o.phones},
	}
	for _, chip := range chips {
		for _, v := range chip.values {
			if err := f.AddContact(chip.field, v); err != nil {
				fmt.Fprintf(errOut, "skipped %s %q: %v\n", chip.field, v, err)
			}
		}
	}

	for _, s := range o.followUps {
		d, err := form.ParseInputDate(s, time.Local)
		if err != nil {
			return fmt.Errorf("--follow-up: %w", err)
		}
		if !f.AddFollowUpDate(d) {
			fmt.Fprintf(errOut, "skipped follow-up %s: already listed\n", s)
		}
	}

	if len(o.files) > 0 {
		if err := f.SetSentFiles(o.files); err != nil {
			return fmt.Errorf("--file: %w", err)
		}
	}
	return nil
}

// parseStatus accepts a status value or its French label, case-insensitively.
// Unknown input is kept as typed so validation reports it.
func parseStatus(s string) models.Status {
	s = strings.TrimSpace(s)
	for _, st := range models.Statuses() {
		if strings.EqualFold(s, string(st)) || strings.EqualFold(s, st.Label("fr")) {
			return st
		}
	}
	return models.Status(s)
}

func parseChoice(s string) (form.Choice, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return form.ChoiceNone, nil
	case "new":
		return form.ChoiceNew, nil
	case "list":
		return form.ChoiceList, nil
	}
	return form.ChoiceNone, fmt.Errorf("--then must be none, new or list, got %q", s)
}

func printValidation(w io.Writer, verr *form.ValidationError) {
	for _, fe := range verr.Fields {
		fmt.Fprintf(w, "  %s: %v\n", fe.Field, fe.Err)
	}
	if verr.DateOrder {
		fmt.Fprintln(w, "  publicationDate: cannot be after the application date")
	}
}

// cliPresenter prints dialog messages and answers success with a preset choice.
type cliPresenter struct {
	out    io.Writer
	choice form.Choice
}

func (p *cliPresenter) Failure(title, msg string) {
	fmt.Fprintf(p.out, "%s: %s\n", title, msg)
}

func (p *cliPresenter) Success(title, msg string) form.Choice {
	fmt.Fprintf(p.out, "%s: %s\n", title, msg)
	return p.choice
}

// dryRunCreator prints the payload and pretends it was stored.
type dryRunCreator struct {
	out io.Writer
}

func (d *dryRunCreator) Create(_ context.Context, req *models.ApplicationRequest) (*models.Application, error) {
	enc := json.NewEncoder(d.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(req); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &models.Application{ID: uuid.New(), ApplicationRequest: *req, CreatedAt: now, UpdatedAt: now}, nil
}
