package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"partyverse/auth"
	"partyverse/domain"
	"partyverse/internal"
	"partyverse/moderation"
	"partyverse/notify"
	"partyverse/observability"
	"partyverse/projection"
	"partyverse/repositories"
	"partyverse/seed"
	"partyverse/services"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and dispatches the subcommand. Errors flow
// back here so 'defer' cleanup (database close, index close) always runs
// before the process exits.
func run(args []string) error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	if len(args) == 0 {
		return fmt.Errorf("usage: partyverse <command> [flags]\ncommands: %s", strings.Join(commandNames, ", "))
	}

	// 2. Storage (BadgerDB + Bluge index)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = blugeWriter.Close()
	}()

	// 3. Moderation
	replacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	words, err := moderation.LoadWords(config.CensoredWordsPath)
	if err != nil {
		return fmt.Errorf("loading censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(words, replacement)
	if err != nil {
		return err
	}

	// 4. Repositories & Services
	users := repositories.NewUserRepository(db, log)
	sessions := repositories.NewSessionRepository(db, log)
	parties := repositories.NewPartyRepository(db, blugeWriter, log)
	venues := repositories.NewVenueRepository(db, log)
	chats := repositories.NewChatRepository(db, log, config.NotificationLimit)

	signer := auth.NewTokenSigner(config.SessionSecret, config.SessionTokenDuration)

	app := &application{
		toasts:   notify.Console{Colours: !config.NoColour},
		auth:     services.NewAuthService(users, sessions, signer),
		chat:     services.NewChatService(chats, users, &moderator, log),
		party:    services.NewPartyService(parties, chats, log),
		venue:    services.NewVenueService(venues, log),
		profile:  services.NewProfileService(users, sessions),
		seeder:   seed.NewSeeder(users, parties, venues, log),
		monitor:  observability.NewMonitor(db, log),
		chatList: projection.ChatList{Party: parties.PartyByID, Messages: chats.Messages, Unread: chats.UnreadCount},
	}
	return app.dispatch(args[0], args[1:])
}

var commandNames = []string{
	"seed", "register", "login", "logout", "whoami",
	"parties", "create-party", "join", "delete-party", "search",
	"venues", "chats", "open", "send", "inbox", "stats",
}

type application struct {
	toasts   notify.Console
	auth     services.IAuthService
	chat     services.IChatService
	party    *services.PartyService
	venue    *services.VenueService
	profile  *services.ProfileService
	seeder   *seed.Seeder
	monitor  *observability.Monitor
	chatList projection.ChatList
}

func (a *application) dispatch(command string, args []string) error {
	switch command {
	case "seed":
		return a.runSeed()
	case "register":
		return a.runRegister(args)
	case "login":
		return a.runLogin(args)
	case "logout":
		return a.runLogout()
	case "whoami":
		return a.runWhoami()
	case "parties":
		return a.runParties()
	case "create-party":
		return a.runCreateParty(args)
	case "join":
		return a.runJoin(args)
	case "delete-party":
		return a.runDeleteParty(args)
	case "search":
		return a.runSearch(args)
	case "venues":
		return a.runVenues()
	case "chats":
		return a.runChats()
	case "open":
		return a.runOpen(args)
	case "send":
		return a.runSend(args)
	case "inbox":
		return a.runInbox()
	case "stats":
		return a.runStats()
	}
	return fmt.Errorf("unknown command %q, expected one of: %s", command, strings.Join(commandNames, ", "))
}

func (a *application) runSeed() error {
	if err := a.seeder.Run(); err != nil {
		return err
	}
	notify.Success(a.toasts, "Demo data loaded")
	return nil
}

func (a *application) runRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	userType := fs.String("type", string(domain.TypeParticipant), "Account type: participant, host, owner or admin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.auth.Register(*name, *email, *password, domain.UserType(*userType))
	if err != nil {
		notify.Error(a.toasts, "Registration failed: %v", err)
		return err
	}
	notify.Success(a.toasts, "Welcome to PartyVerse, %s!", user.Name)
	return nil
}

func (a *application) runLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.auth.Login(*email, *password)
	if err != nil {
		notify.Error(a.toasts, "Login failed: %v", err)
		return err
	}
	notify.Success(a.toasts, "Logged in as %s (%s)", user.Name, user.Type)
	return nil
}

func (a *application) runLogout() error {
	if err := a.auth.Logout(); err != nil {
		return err
	}
	notify.Info(a.toasts, "Logged out")
	return nil
}

func (a *application) runWhoami() error {
	user, err := a.auth.CurrentUser()
	if err != nil {
		notify.Info(a.toasts, "Not logged in")
		return nil
	}
	fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Type)
	return nil
}

func (a *application) runParties() error {
	parties, err := a.party.All()
	if err != nil {
		return err
	}
	renderParties(parties)
	return nil
}

func (a *application) runCreateParty(args []string) error {
	fs := flag.NewFlagSet("create-party", flag.ContinueOnError)
	cmd := services.CreatePartyCommand{}
	fs.StringVar(&cmd.Title, "title", "", "Party title")
	fs.StringVar(&cmd.Description, "description", "", "Description")
	fs.StringVar(&cmd.Date, "date", "", "Date (YYYY-MM-DD)")
	fs.StringVar(&cmd.Time, "time", "", "Start time (HH:MM)")
	fs.StringVar(&cmd.Location, "location", "", "Location")
	fs.StringVar(&cmd.Category, "category", "social", "Category")
	fs.Float64Var(&cmd.Price, "price", 0, "Ticket price")
	fs.IntVar(&cmd.Capacity, "capacity", 0, "Capacity")
	if err := fs.Parse(args); err != nil {
		return err
	}

	host, err := a.auth.CurrentUser()
	if err != nil {
		notify.Error(a.toasts, "Please log in first")
		return err
	}
	party, err := a.party.Create(cmd, host)
	if err != nil {
		notify.Error(a.toasts, "Could not create party: %v", err)
		return err
	}
	notify.Success(a.toasts, "Party %q created (id %s)", party.Title, party.ID)
	return nil
}

func (a *application) runJoin(args []string) error {
	fs := flag.NewFlagSet("join", flag.ContinueOnError)
	partyID := fs.String("party", "", "Party ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	party, err := a.party.Join(*partyID)
	if err != nil {
		notify.Error(a.toasts, "Could not join: %v", err)
		return err
	}
	notify.Success(a.toasts, "You joined %q (%d/%d attending)", party.Title, party.Attendees, party.Capacity)
	return nil
}

func (a *application) runDeleteParty(args []string) error {
	fs := flag.NewFlagSet("delete-party", flag.ContinueOnError)
	partyID := fs.String("party", "", "Party ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.party.Delete(*partyID); err != nil {
		notify.Error(a.toasts, "Could not delete party: %v", err)
		return err
	}
	notify.Success(a.toasts, "Party deleted, chat and notifications cleaned up")
	return nil
}

func (a *application) runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	query := fs.String("q", "", "Search query")
	if err := fs.Parse(args); err != nil {
		return err
	}

	parties, err := a.party.Search(context.Background(), *query)
	if err != nil {
		return err
	}
	if len(parties) == 0 {
		notify.Info(a.toasts, "No parties match %q", *query)
		return nil
	}
	renderParties(parties)
	return nil
}

func (a *application) runVenues() error {
	venues, err := a.venue.All()
	if err != nil {
		return err
	}
	t := newTable([]string{"ID", "Name", "Address", "Capacity", "Price/Hour", "Amenities", "Owner"})
	for _, v := range venues {
		t.Append([]string{
			v.ID, v.Name, v.Address,
			strconv.Itoa(v.Capacity),
			fmt.Sprintf("%.0f", v.PricePerHour),
			strings.Join(v.Amenities, ", "),
			v.Owner,
		})
	}
	t.Render()
	return nil
}

func (a *application) runChats() error {
	user, err := a.auth.CurrentUser()
	if err != nil {
		notify.Error(a.toasts, "Please log in first")
		return err
	}
	recent, err := a.chat.RecentChats(user.ID)
	if err != nil {
		return err
	}
	entries, err := a.chatList.Build(user.ID, recent, time.Now())
	if err != nil {
		return err
	}
	t := newTable([]string{"Party", "Last Message", "Unread", "When"})
	for _, e := range entries {
		t.Append([]string{e.PartyTitle, e.Preview, projection.Badge(e.Unread), e.When})
	}
	t.Render()
	return nil
}

func (a *application) runOpen(args []string) error {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	partyID := fs.String("party", "", "Party ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.auth.CurrentUser()
	if err != nil {
		notify.Error(a.toasts, "Please log in first")
		return err
	}
	messages, err := a.chat.OpenChat(*partyID, user)
	if err != nil {
		return err
	}
	for _, m := range messages {
		fmt.Printf("[%s] %s: %s\n", m.Timestamp, m.SenderName, m.Text)
	}
	return nil
}

func (a *application) runSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	partyID := fs.String("party", "", "Party ID")
	text := fs.String("text", "", "Message text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.auth.CurrentUser()
	if err != nil {
		notify.Error(a.toasts, "Please log in first")
		return err
	}
	if _, err := a.chat.PostMessage(*partyID, user, *text); err != nil {
		notify.Error(a.toasts, "Could not send: %v", err)
		return err
	}
	notify.Success(a.toasts, "Message sent")
	return nil
}

func (a *application) runInbox() error {
	user, err := a.auth.CurrentUser()
	if err != nil {
		notify.Error(a.toasts, "Please log in first")
		return err
	}
	notifications, err := a.chat.Inbox(user.ID)
	if err != nil {
		return err
	}
	count, err := a.chat.InboxCount(user.ID)
	if err != nil {
		return err
	}
	t := newTable([]string{"Party", "From", "Message", "Timestamp", "Read"})
	for _, n := range notifications {
		t.Append([]string{n.PartyID, n.Sender, n.Message, n.Timestamp, strconv.FormatBool(n.Read)})
	}
	t.Render()
	notify.Info(a.toasts, "%d unread notifications", count)
	return nil
}

func (a *application) runStats() error {
	snap := a.monitor.Collect()
	t := newTable([]string{"Metric", "Value"})
	t.Append([]string{"Goroutines", strconv.Itoa(snap.Goroutines)})
	t.Append([]string{"Heap alloc (MB)", fmt.Sprintf("%.2f", snap.HeapAllocMB)})
	t.Append([]string{"GC cycles", strconv.FormatUint(uint64(snap.GCCycles), 10)})
	t.Append([]string{"LSM size (MB)", fmt.Sprintf("%.2f", snap.LSMSizeMB)})
	t.Append([]string{"Vlog size (MB)", fmt.Sprintf("%.2f", snap.VlogSizeMB)})
	t.Append([]string{"CPU (%)", fmt.Sprintf("%.1f", snap.CPUPercent)})
	t.Append([]string{"RAM (%)", fmt.Sprintf("%.1f", snap.RAMPercent)})
	t.Append([]string{"Process state", snap.ProcessState})
	t.Render()
	return nil
}

func renderParties(parties []domain.Party) {
	t := newTable([]string{"ID", "Title", "Date", "Time", "Location", "Category", "Price", "Attending", "Host"})
	for _, p := range parties {
		t.Append([]string{
			p.ID, p.Title, p.Date, p.Time, p.Location, p.Category,
			fmt.Sprintf("%.0f", p.Price),
			fmt.Sprintf("%d/%d", p.Attendees, p.Capacity),
			p.Host,
		})
	}
	t.Render()
}

func newTable(headers []string) *tablewriter.Table {
	t := tablewriter.NewWriter(os.Stdout)
	t.SetHeader(headers)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(true)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetCenterSeparator("")
	t.SetColumnSeparator("")
	t.SetRowSeparator("")
	t.SetHeaderLine(false)
	t.SetBorder(false)
	t.SetTablePadding("\t")
	return t
}
