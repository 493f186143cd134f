package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/freedom_case_2/callemail/internal/callemail"
	"github.com/freedom_case_2/callemail/internal/models"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a record as the operator sees it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		store, err := loadedStore(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(store.CallEmail())
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a placeholder draft record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		saved, err := newStore().SaveCallEmail(ctx, callemail.SaveOptions{Crud: callemail.CrudCreate})
		if err != nil {
			return err
		}
		fmt.Printf("created %s (id %s)\n", saved.Number, idString(saved.ID))
		return nil
	},
}

var (
	saveMode           string
	saveInternal       bool
	saveClassification int64
	saveReportType     int64
	saveRegion         int64
)

var saveCmd = &cobra.Command{
	Use:   "save <id>",
	Short: "Change a record and save it as a draft or submit it",
	Long: `Load a record, apply the given changes and save it.

Dates are entered as DD/MM/YYYY and times as hh:mm AM/PM. Pass an empty
string to clear a field.

Modes:
  save    store as draft, no mandatory fields
  update  submit; classification, report type and occurrence date are required`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if saveMode != string(callemail.CrudSave) && saveMode != string(callemail.CrudUpdate) {
			return fmt.Errorf("unknown mode %q", saveMode)
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		store, err := loadedStore(ctx, args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("classification") {
			store.UpdateClassification(&models.Reference{ID: models.Int64(saveClassification)})
		}
		if flags.Changed("report-type") {
			store.UpdateReportType(&models.ReportType{ID: models.Int64(saveReportType)})
		}
		if flags.Changed("region") {
			store.UpdateRegionID(models.Int64(saveRegion))
		}
		for flag, apply := range map[string]func(models.OptionalString){
			"occurrence-date-from":  store.UpdateOccurrenceDateFrom,
			"occurrence-time-start": store.UpdateOccurrenceTimeStart,
			"occurrence-date-to":    store.UpdateOccurrenceDateTo,
			"occurrence-time-end":   store.UpdateOccurrenceTimeEnd,
			"date-of-call":          store.UpdateDateOfCall,
			"time-of-call":          store.UpdateTimeOfCall,
		} {
			if flags.Changed(flag) {
				v, _ := flags.GetString(flag)
				apply(models.Some(v))
			}
		}

		saved, err := store.SaveCallEmail(ctx, callemail.SaveOptions{Crud: callemail.Crud(saveMode), Internal: saveInternal})
		if err != nil {
			return err
		}
		if saveInternal {
			return printJSON(saved)
		}
		return nil
	},
}

var duplicateCmd = &cobra.Command{
	Use:   "duplicate <id>",
	Short: "Copy a record into a new draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		store, err := loadedStore(ctx, args[0])
		if err != nil {
			return err
		}
		_, err = store.SaveCallEmail(ctx, callemail.SaveOptions{Crud: callemail.CrudDuplicate})
		return err
	},
}

var (
	personFirstName string
	personLastName  string
	personEmail     string
	personPhone     string
)

var personCmd = &cobra.Command{
	Use:   "person <id>",
	Short: "Save the reporter of a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		store, err := loadedStore(ctx, args[0])
		if err != nil {
			return err
		}
		u := store.CallEmail().EmailUser
		if u == nil {
			u = models.DefaultEmailUser()
		}
		flags := cmd.Flags()
		if flags.Changed("first-name") {
			u.FirstName = personFirstName
		}
		if flags.Changed("last-name") {
			u.LastName = personLastName
		}
		if flags.Changed("email") {
			u.Email = personEmail
		}
		if flags.Changed("phone") {
			u.PhoneNumber = personPhone
		}
		store.UpdateEmailUser(u)
		return store.SaveCallEmailPerson(ctx)
	},
}

var geocodeForce bool

var geocodeCmd = &cobra.Command{
	Use:   "geocode <id>",
	Short: "Place a record's location from its address and save the draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		store, err := loadedStore(ctx, args[0])
		if err != nil {
			return err
		}
		res, err := store.GeocodeLocation(ctx, geocodeForce)
		if err != nil {
			return err
		}
		if res.DisplayName == "" && res.Lat == 0 && res.Lon == 0 {
			fmt.Println("location already placed; use --force to look it up again")
			return nil
		}
		fmt.Printf("%s -> %s, %s\n", res.DisplayName, store.CallLatitude(), store.CallLongitude())
		_, err = store.SaveCallEmail(ctx, callemail.SaveOptions{Crud: callemail.CrudSave})
		return err
	},
}

var lookupsCmd = &cobra.Command{
	Use:   "lookups",
	Short: "List classifications, call types, report types, referrers and statuses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		store := newStore()
		if err := store.LoadReferenceData(ctx); err != nil {
			return err
		}
		return printJSON(map[string]any{
			"classification": store.ClassificationTypes(),
			"call_types":     store.CallTypes(),
			"report_types":   store.ReportTypes(),
			"referrers":      store.Referrers(),
			"status_choices": store.StatusChoices(),
		})
	},
}

func init() {
	f := saveCmd.Flags()
	f.StringVar(&saveMode, "mode", string(callemail.CrudSave), "save (draft) or update (submit)")
	f.BoolVar(&saveInternal, "internal", false, "print the saved record instead of a confirmation")
	f.Int64Var(&saveClassification, "classification", 0, "classification id")
	f.Int64Var(&saveReportType, "report-type", 0, "report type id")
	f.Int64Var(&saveRegion, "region", 0, "region id")
	f.String("occurrence-date-from", "", "DD/MM/YYYY")
	f.String("occurrence-time-start", "", "hh:mm AM/PM")
	f.String("occurrence-date-to", "", "DD/MM/YYYY")
	f.String("occurrence-time-end", "", "hh:mm AM/PM")
	f.String("date-of-call", "", "DD/MM/YYYY")
	f.String("time-of-call", "", "hh:mm AM/PM")

	p := personCmd.Flags()
	p.StringVar(&personFirstName, "first-name", "", "given name(s)")
	p.StringVar(&personLastName, "last-name", "", "last name")
	p.StringVar(&personEmail, "email", "", "email address")
	p.StringVar(&personPhone, "phone", "", "phone number")

	geocodeCmd.Flags().BoolVar(&geocodeForce, "force", false, "look the address up even if a point is set")
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

// loadedStore returns a store holding record id. Loading never fails loudly,
// so a record that did not arrive is reported here.
func loadedStore(ctx context.Context, arg string) (*callemail.Store, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", arg)
	}
	store := newStore()
	store.LoadCallEmail(ctx, id)
	if got := store.CallEmail().ID; got == nil || *got != id {
		return nil, fmt.Errorf("call/email %d could not be loaded", id)
	}
	return store, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func idString(id *int64) string {
	if id == nil {
		return "none"
	}
	return strconv.FormatInt(*id, 10)
}
