package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"staffdesk/internal/auth"
	"staffdesk/internal/complaint"
	"staffdesk/internal/domain"
	"staffdesk/internal/leave"
	"staffdesk/internal/portal/api"
	"staffdesk/internal/portal/authz"
	"staffdesk/internal/portal/coordinator"
	"staffdesk/internal/portal/session"
	"staffdesk/internal/shared/apperror"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `portalctl - workplace portal command line

Usage:
  portalctl [--server URL] [--credentials PATH] <command> [flags]

Commands:
  login       --email --password
  register    --name --email --password [--department]
  logout
  whoami
  leave       list | submit --start --end --reason | approve <id> | reject <id>
  complaint   list | submit --title --description --category [--priority] |
              assign <id> | resolve <id> --resolution | close <id>
`

var reviewerRoles = []domain.Role{domain.RoleManager, domain.RoleAdmin}

func main() {
	logger := zap.NewNop()
	if os.Getenv("PORTALCTL_DEBUG") != "" {
		logger, _ = zap.NewDevelopment()
	}
	zap.ReplaceGlobals(logger)
	apperror.Init()

	global := pflag.NewFlagSet("portalctl", pflag.ExitOnError)
	global.SetInterspersed(false)
	server := global.String("server", envOr("PORTAL_SERVER", "http://localhost:3000/api/v1"), "portal API base URL")
	credentialsPath := global.String("credentials", defaultCredentialsPath(), "credentials file location")
	_ = global.Parse(os.Args[1:])

	args := global.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	store := session.NewStore(session.NewCredentialsFile(*credentialsPath), logger)
	client := api.NewClient(*server, store, logger)
	store.Bind(client)
	store.Restore()
	coord := coordinator.New(client, store, logger)

	ctx := context.Background()
	if err := run(ctx, store, coord, args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, store *session.Store, coord *coordinator.Coordinator, args []string) error {
	switch args[0] {
	case "login":
		return cmdLogin(ctx, store, args[1:])
	case "register":
		return cmdRegister(ctx, store, args[1:])
	case "logout":
		store.Logout()
		fmt.Println("Signed out.")
		return nil
	case "whoami":
		return cmdWhoami(store)
	case "leave":
		return cmdLeave(ctx, store, coord, args[1:])
	case "complaint":
		return cmdComplaint(ctx, store, coord, args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func cmdLogin(ctx context.Context, store *session.Store, args []string) error {
	fs := pflag.NewFlagSet("login", pflag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	if !authz.GuestOnly(store.Current()) {
		return fmt.Errorf("already signed in, run `portalctl logout` first")
	}

	identity, err := store.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", identity.FullName, identity.Role)
	return nil
}

func cmdRegister(ctx context.Context, store *session.Store, args []string) error {
	fs := pflag.NewFlagSet("register", pflag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	department := fs.String("department", "", "department")
	_ = fs.Parse(args)

	if !authz.GuestOnly(store.Current()) {
		return fmt.Errorf("already signed in, run `portalctl logout` first")
	}

	identity, err := store.Register(ctx, auth.RegisterRequest{
		FullName:   *name,
		Email:      *email,
		Password:   *password,
		Department: *department,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Account created, signed in as %s (%s)\n", identity.FullName, identity.Role)
	return nil
}

func cmdWhoami(store *session.Store) error {
	identity := store.Current()
	if identity == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s <%s> role=%s id=%s\n", identity.FullName, identity.Email, identity.Role, identity.UserID)
	return nil
}

func cmdLeave(ctx context.Context, store *session.Store, coord *coordinator.Coordinator, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("leave needs a subcommand: list, submit, approve, reject")
	}

	switch args[0] {
	case "list":
		if !authz.CanRender(store.Current(), nil) {
			return fmt.Errorf("sign in to view leave requests")
		}
		leaves, err := coord.RefreshLeaves(ctx)
		if err != nil {
			return err
		}
		renderLeaves(leaves)
		return nil

	case "submit":
		fs := pflag.NewFlagSet("leave submit", pflag.ExitOnError)
		start := fs.String("start", "", "start date (YYYY-MM-DD)")
		end := fs.String("end", "", "end date (YYYY-MM-DD)")
		reason := fs.String("reason", "", "reason for the request")
		_ = fs.Parse(args[1:])

		if !authz.CanRender(store.Current(), nil) {
			return fmt.Errorf("sign in to submit a leave request")
		}
		if err := coord.SubmitLeave(ctx, *start, *end, *reason); err != nil {
			return err
		}
		fmt.Println("Leave request submitted.")
		return nil

	case "approve", "reject":
		if len(args) < 2 {
			return fmt.Errorf("leave %s needs a request id", args[0])
		}
		if !authz.CanRender(store.Current(), reviewerRoles) {
			return fmt.Errorf("only managers and admins can decide leave requests")
		}
		// Warm the cache so an already-decided request fails locally.
		if _, err := coord.RefreshLeaves(ctx); err != nil {
			return err
		}
		var err error
		outcome := "approved"
		if args[0] == "approve" {
			err = coord.ApproveLeave(ctx, args[1])
		} else {
			err = coord.RejectLeave(ctx, args[1])
			outcome = "rejected"
		}
		if err != nil {
			return err
		}
		fmt.Printf("Leave request %s %s.\n", args[1], outcome)
		return nil

	default:
		return fmt.Errorf("unknown leave subcommand: %s", args[0])
	}
}

func cmdComplaint(ctx context.Context, store *session.Store, coord *coordinator.Coordinator, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("complaint needs a subcommand: list, submit, assign, resolve, close")
	}

	switch args[0] {
	case "list":
		if !authz.CanRender(store.Current(), nil) {
			return fmt.Errorf("sign in to view complaints")
		}
		complaints, err := coord.RefreshComplaints(ctx)
		if err != nil {
			return err
		}
		renderComplaints(complaints)
		return nil

	case "submit":
		fs := pflag.NewFlagSet("complaint submit", pflag.ExitOnError)
		title := fs.String("title", "", "short summary")
		description := fs.String("description", "", "what happened")
		category := fs.String("category", "", "complaint category")
		priority := fs.String("priority", complaint.PriorityMedium.String(), "LOW, MEDIUM, HIGH or URGENT")
		_ = fs.Parse(args[1:])

		if !authz.CanRender(store.Current(), nil) {
			return fmt.Errorf("sign in to submit a complaint")
		}
		if err := coord.SubmitComplaint(ctx, *title, *description, *category, *priority); err != nil {
			return err
		}
		fmt.Println("Complaint submitted.")
		return nil

	case "assign":
		if len(args) < 2 {
			return fmt.Errorf("complaint assign needs a complaint id")
		}
		if !authz.CanRender(store.Current(), reviewerRoles) {
			return fmt.Errorf("only managers and admins can assign complaints")
		}
		if _, err := coord.RefreshComplaints(ctx); err != nil {
			return err
		}
		if err := coord.AssignComplaint(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("Complaint %s assigned to you.\n", args[1])
		return nil

	case "resolve":
		fs := pflag.NewFlagSet("complaint resolve", pflag.ExitOnError)
		resolution := fs.String("resolution", "", "how the complaint was resolved")
		if len(args) < 2 {
			return fmt.Errorf("complaint resolve needs a complaint id")
		}
		_ = fs.Parse(args[2:])

		if !authz.CanRender(store.Current(), reviewerRoles) {
			return fmt.Errorf("only managers and admins can resolve complaints")
		}
		if _, err := coord.RefreshComplaints(ctx); err != nil {
			return err
		}
		if err := coord.UpdateComplaintStatus(ctx, args[1], complaint.StatusResolved, *resolution); err != nil {
			return err
		}
		fmt.Printf("Complaint %s resolved.\n", args[1])
		return nil

	case "close":
		if len(args) < 2 {
			return fmt.Errorf("complaint close needs a complaint id")
		}
		if !authz.CanRender(store.Current(), reviewerRoles) {
			return fmt.Errorf("only managers and admins can close complaints")
		}
		if _, err := coord.RefreshComplaints(ctx); err != nil {
			return err
		}
		if err := coord.UpdateComplaintStatus(ctx, args[1], complaint.StatusClosed, ""); err != nil {
			return err
		}
		fmt.Printf("Complaint %s closed.\n", args[1])
		return nil

	default:
		return fmt.Errorf("unknown complaint subcommand: %s", args[0])
	}
}

func renderLeaves(leaves []leave.LeaveResponse) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREQUESTER\tSTART\tEND\tSTATUS\tREVIEWER")
	for _, l := range leaves {
		reviewer := "-"
		if l.ReviewerName != nil {
			reviewer = *l.ReviewerName
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.RequesterName, l.StartDate, l.EndDate, l.Status, reviewer)
	}
	w.Flush()
}

func renderComplaints(complaints []complaint.ComplaintResponse) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPRIORITY\tSTATUS\tASSIGNEE")
	for _, c := range complaints {
		assignee := "-"
		if c.AssigneeName != nil {
			assignee = *c.AssigneeName
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Title, c.Category, c.Priority, c.Status, assignee)
	}
	w.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".staffdesk-credentials.json"
	}
	return filepath.Join(home, ".staffdesk", "credentials.json")
}
