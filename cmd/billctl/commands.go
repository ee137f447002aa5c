package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"jyotikabilling/billfilter"
	"jyotikabilling/client"
	"jyotikabilling/models"
	"jyotikabilling/utils"
)

var billFlags = []cli.Flag{
	&cli.StringFlag{Name: "patient", Usage: "patient name"},
	&cli.StringFlag{Name: "guardian", Usage: "guardian name"},
	&cli.StringFlag{Name: "phone", Usage: "10 digit phone number"},
	&cli.StringFlag{Name: "address"},
	&cli.StringFlag{Name: "date", Usage: "bill date, YYYY-MM-DD"},
	&cli.StringFlag{Name: "charge-type", Usage: "Consultation or Delivery"},
	&cli.StringFlag{Name: "status", Usage: "Pending, Paid or Overdue"},
	&cli.StringFlag{Name: "amount"},
}

var filterFlags = []cli.Flag{
	&cli.StringFlag{Name: "start-date"},
	&cli.StringFlag{Name: "end-date"},
	&cli.StringFlag{Name: "min-amount"},
	&cli.StringFlag{Name: "max-amount"},
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and keep the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", EnvVars: []string{"BILLING_PASSWORD"}, Required: true},
		},
		Action: func(c *cli.Context) error {
			sess, err := newClient(c).Login(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s)\n", sess.Name, sess.Role)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name: "logout",
		Action: func(c *cli.Context) error {
			return newClient(c).Logout()
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list bills, optionally filtered by date and amount",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{Name: "summary", Usage: "print totals after the list"},
		}, filterFlags...),
		Action: func(c *cli.Context) error {
			criteria, err := billfilter.ParseCriteria(
				c.String("start-date"), c.String("end-date"),
				c.String("min-amount"), c.String("max-amount"),
			)
			if err != nil {
				return err
			}

			st, _ := newStore(c)
			if _, err := st.FetchBills(c.Context); err != nil {
				return err
			}
			bills := st.Filter(criteria)
			printBills(bills)

			if c.Bool("summary") {
				printSummary(billfilter.Summarize(bills))
			}
			return nil
		},
	}
}

func draftFromFlags(c *cli.Context, d models.BillDraft) models.BillDraft {
	set := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	set("patient", &d.PatientName)
	set("guardian", &d.GuardianName)
	set("phone", &d.Phone)
	set("address", &d.Address)
	set("date", &d.BillDate)
	set("charge-type", &d.ChargeType)
	set("status", &d.Status)
	if c.IsSet("amount") {
		d.Amount = models.AmountInput(c.String("amount"))
	}
	return d
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "create a bill",
		Flags: billFlags,
		Action: func(c *cli.Context) error {
			st, _ := newStore(c)
			// the serial hint needs the current collection
			if _, err := st.FetchBills(c.Context); err != nil {
				return err
			}
			bill, err := st.CreateBill(c.Context, draftFromFlags(c, models.BillDraft{}))
			if err != nil {
				return err
			}
			fmt.Printf("Created bill %s for %s (%s)\n", bill.SerialLabel(), bill.PatientName, utils.FormatRupees(bill.Amount))
			return nil
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "change fields of a bill",
		ArgsUsage: "<bill id>",
		Flags:     billFlags,
		Action: func(c *cli.Context) error {
			id, err := requireID(c)
			if err != nil {
				return err
			}
			st, _ := newStore(c)
			existing, err := st.FetchBill(c.Context, id)
			if err != nil {
				return err
			}
			bill, err := st.UpdateBill(c.Context, id, draftFromFlags(c, models.DraftFromBill(*existing)))
			if err != nil {
				return err
			}
			fmt.Printf("Updated bill %s (%s)\n", bill.SerialLabel(), bill.Status)
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print one invoice",
		ArgsUsage: "<bill id>",
		Action: func(c *cli.Context) error {
			id, err := requireID(c)
			if err != nil {
				return err
			}
			st, api := newStore(c)
			bill, err := st.FetchBill(c.Context, id)
			if err != nil {
				return err
			}
			fmt.Print(utils.InvoiceText(utils.NewInvoiceView(clinicOrNil(c, api), *bill)))
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		ArgsUsage: "<bill id>",
		Action: func(c *cli.Context) error {
			id, err := requireID(c)
			if err != nil {
				return err
			}
			st, _ := newStore(c)
			if err := st.DeleteBill(c.Context, id); err != nil {
				return err
			}
			fmt.Println("Deleted", id)
			return nil
		},
	}
}

func bulkPrintCommand() *cli.Command {
	return &cli.Command{
		Name:  "bulk-print",
		Usage: "print every bill in a serial range",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start-serial"},
			&cli.StringFlag{Name: "end-serial"},
			&cli.StringSliceFlag{Name: "toggle", Usage: "bill id to add to or drop from the selection"},
			&cli.StringFlag{Name: "pdf", Usage: "write the invoices to this PDF file"},
		},
		Action: func(c *cli.Context) error {
			r, err := billfilter.ParseSerialRange(c.String("start-serial"), c.String("end-serial"))
			if err != nil {
				return err
			}

			st, api := newStore(c)
			if _, err := st.FetchBills(c.Context); err != nil {
				return err
			}
			if _, err := st.ApplySerialRange(r); err != nil {
				return err
			}
			for _, id := range c.StringSlice("toggle") {
				st.ToggleSelection(id)
			}

			bills, err := st.PrintSelected(c.Context)
			if err != nil {
				return err
			}

			if out := c.String("pdf"); out != "" {
				pdf, err := api.BulkPrintPDF(c.Context, billfilter.Keys(bills))
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, pdf, 0644); err != nil {
					return err
				}
				fmt.Printf("Wrote %d invoices to %s\n", len(bills), out)
				return nil
			}

			clinic := clinicOrNil(c, api)
			for i, b := range bills {
				if i > 0 {
					fmt.Println(strings.Repeat("-", 48))
				}
				fmt.Print(utils.InvoiceText(utils.NewInvoiceView(clinic, b)))
			}
			return nil
		},
	}
}

func requireID(c *cli.Context) (string, error) {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return "", cli.Exit("a bill id is required", 2)
	}
	return id, nil
}

// clinicOrNil loads the letterhead; invoices still print without one.
func clinicOrNil(c *cli.Context, api *client.Client) *models.ClinicProfile {
	clinic, err := api.Clinic(c.Context)
	if err != nil {
		return nil
	}
	return clinic
}

func printBills(bills []models.Bill) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSERIAL\tDATE\tPATIENT\tPHONE\tCHARGE\tSTATUS\tAMOUNT")
	for _, b := range bills {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.Key(), b.SerialLabel(), b.BillDate.Format("2006-01-02"), b.PatientName,
			utils.FormatPhone(b.Phone), b.ChargeType, b.Status, utils.FormatRupees(b.Amount))
	}
	tw.Flush()
}

func printSummary(s billfilter.Summary) {
	fmt.Printf("\n%d bills, total %s\n", s.Count, utils.FormatRupees(s.TotalRevenue))
	for _, status := range models.Statuses {
		if t, ok := s.ByStatus[status]; ok {
			fmt.Printf("  %-8s %3d  %s\n", status, t.Count, utils.FormatRupees(t.Amount))
		}
	}
}

// describe prints API failures with their field errors, one per line.
func describe(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	var sb strings.Builder
	sb.WriteString(apiErr.Message)
	if apiErr.Status > 0 {
		fmt.Fprintf(&sb, " (%d)", apiErr.Status)
	}
	for _, e := range apiErr.Errors {
		sb.WriteString("\n  - " + e)
	}
	return sb.String()
}
