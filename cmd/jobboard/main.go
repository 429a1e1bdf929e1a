// Command jobboard is an interactive terminal front end for the JobSphere
// API. It renders one screen at a time and keeps the signed-in session in the
// user config directory so it survives restarts.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/ratan2401/JobSphere/internal/ui"
	apiclient "github.com/ratan2401/JobSphere/pkg/api/client"
)

type cliConfig struct {
	APIBaseURL  string `json:"api_base_url"`
	AccessToken string `json:"access_token"`
}

var buildVersion = "dev"

const requestTimeout = 15 * time.Second

func main() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "version", "--version", "-v":
			fmt.Println(strings.TrimSpace(buildVersion))
			return
		case "help", "-h", "--help":
			printUsage()
			return
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(os.Args) > 1 {
		cfg.APIBaseURL = os.Args[1]
	}

	client, err := apiclient.New(cfg.APIBaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := &app{
		client:     client,
		controller: ui.NewController(),
		cfg:        cfg,
		in:         bufio.NewScanner(os.Stdin),
	}
	app.restoreSession()
	app.run()
}

type app struct {
	client     *apiclient.Client
	controller *ui.Controller
	cfg        cliConfig
	in         *bufio.Scanner
}

// restoreSession revives a persisted token by fetching the profile; a token
// the server no longer accepts is discarded silently.
func (a *app) restoreSession() {
	token := strings.TrimSpace(a.cfg.AccessToken)
	if token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	user, err := a.client.Me(ctx, token)
	if err != nil {
		a.cfg.AccessToken = ""
		_ = saveConfig(a.cfg)
		return
	}
	a.controller.SignIn(token, user)
}

func (a *app) run() {
	fmt.Printf("jobboard %s (api %s)\n", buildVersion, a.cfg.APIBaseURL)
	fmt.Println(`type "help" for commands, "quit" to exit`)
	for {
		a.render()
		fmt.Printf("[%s] > ", a.controller.Screen().Kind)
		if !a.in.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(a.in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "quit", "exit":
			return
		case "help":
			a.printHelp()
		case "back":
			a.controller.Back()
		default:
			if err := a.dispatch(cmd, args); err != nil {
				fmt.Printf("error: %v\n", err)
			}
		}
	}
}

func (a *app) render() {
	if notice := a.controller.Notice(); notice != "" {
		fmt.Printf("* %s\n", notice)
	}
	screen := a.controller.Screen()
	switch screen.Kind {
	case ui.ScreenJobResults:
		if len(screen.Jobs) == 0 {
			fmt.Println("no jobs matched")
			return
		}
		for i, job := range screen.Jobs {
			location := job.Location
			if location == "" {
				location = "-"
			}
			fmt.Printf("%2d. %s @ %s (%s) [%s]\n", i+1, job.Title, job.Company, location, strings.Join(job.Skills, ", "))
		}
	case ui.ScreenApply:
		if screen.Job != nil {
			fmt.Printf("applying to: %s @ %s\n", screen.Job.Title, screen.Job.Company)
		}
	case ui.ScreenProfile:
		user := a.controller.Session().User
		fmt.Printf("name:     %s\nusername: %s\nemail:    %s\ncollege:  %s\ncompany:  %s\nphone:    %s\n",
			user.Name, user.Username, user.Email, user.College, user.Company, user.Phone)
	}
}

func (a *app) dispatch(cmd string, args []string) error {
	switch a.controller.Screen().Kind {
	case ui.ScreenJobResults:
		switch cmd {
		case "apply":
			return a.startApply(args)
		case "next":
			return a.turnPage(1)
		case "prev":
			return a.turnPage(-1)
		}
	case ui.ScreenApply:
		if cmd == "submit" {
			return a.submitApplication()
		}
	case ui.ScreenPostJob:
		if cmd == "submit" {
			return a.submitJob()
		}
	case ui.ScreenProfile:
		switch cmd {
		case "update":
			return a.updateProfile(args)
		case "recommend":
			return a.showRecommendations()
		case "applicants":
			return a.listApplicants(args)
		}
	}

	// Global commands work from any screen.
	switch cmd {
	case "search":
		return a.search(args)
	case "login":
		return a.login(args)
	case "register":
		return a.register()
	case "logout":
		return a.logout()
	case "profile":
		a.controller.OpenProfile()
		return nil
	case "post":
		a.controller.OpenPostJob()
		return nil
	}
	return fmt.Errorf("unknown command: %s", cmd)
}

func (a *app) search(args []string) error {
	query := ui.SearchQuery{Page: 1}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--skill":
			if i+1 < len(args) {
				i++
				query.Skill = args[i]
			}
		case "--location":
			if i+1 < len(args) {
				i++
				query.Location = args[i]
			}
		case "--page":
			if i+1 < len(args) {
				i++
				query.Page, _ = strconv.Atoi(args[i])
			}
		default:
			if query.Skill == "" {
				query.Skill = args[i]
			}
		}
	}
	return a.runSearch(query)
}

func (a *app) runSearch(query ui.SearchQuery) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	jobs, err := a.client.SearchJobs(ctx, apiclient.SearchFilter{
		Skill:    query.Skill,
		Location: query.Location,
		Page:     query.Page,
	})
	if err != nil {
		return err
	}
	a.controller.ShowResults(query, jobs)
	return nil
}

func (a *app) turnPage(delta int) error {
	query := a.controller.Screen().Query
	query.Page += delta
	if query.Page < 1 {
		query.Page = 1
	}
	return a.runSearch(query)
}

func (a *app) login(args []string) error {
	email := ""
	if len(args) > 0 {
		email = args[0]
	} else {
		email = a.prompt("email")
	}
	if strings.TrimSpace(email) == "" {
		return errors.New("email is required")
	}
	password, err := readPassword("password")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.controller.SignIn(resp.Token, resp.User)
	a.cfg.AccessToken = resp.Token
	return saveConfig(a.cfg)
}

func (a *app) register() error {
	input := apiclient.RegisterInput{
		Name:     a.prompt("full name"),
		Username: a.prompt("username"),
		Email:    a.prompt("email"),
	}
	password, err := readPassword("password")
	if err != nil {
		return err
	}
	input.Password = password

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := a.client.Register(ctx, input); err != nil {
		return err
	}
	fmt.Println("registered, you can now login")
	return nil
}

func (a *app) logout() error {
	a.controller.SignOut()
	a.cfg.AccessToken = ""
	return saveConfig(a.cfg)
}

func (a *app) startApply(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: apply <result number>")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.New("usage: apply <result number>")
	}
	jobs := a.controller.Screen().Jobs
	if index < 1 || index > len(jobs) {
		return fmt.Errorf("no result %d", index)
	}
	a.controller.OpenApply(jobs[index-1])
	return nil
}

func (a *app) submitApplication() error {
	screen := a.controller.Screen()
	if screen.Job == nil {
		return errors.New("no job selected")
	}
	user := a.controller.Session().User
	input := apiclient.ApplicationInput{
		JobID:   screen.Job.ID,
		Name:    a.promptDefault("name", user.Name),
		Email:   a.promptDefault("email", user.Email),
		Mobile:  a.promptDefault("mobile", user.Phone),
		College: a.promptDefault("college", user.College),
		Skills:  a.prompt("skills (comma separated)"),
		Resume:  a.prompt("resume filename"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	application, err := a.client.SubmitApplication(ctx, a.controller.Session().Token, input)
	if err != nil {
		return err
	}
	fmt.Printf("application submitted: %s\n", application.ID)
	a.controller.Back()
	return nil
}

func (a *app) submitJob() error {
	input := apiclient.CreateJobInput{
		Title:       a.prompt("title"),
		Company:     a.prompt("company"),
		Location:    a.prompt("location"),
		Experience:  a.prompt("experience"),
		Education:   a.prompt("education"),
		Description: a.prompt("description"),
	}
	if skills := a.prompt("skills (comma separated)"); skills != "" {
		for _, skill := range strings.Split(skills, ",") {
			if trimmed := strings.TrimSpace(skill); trimmed != "" {
				input.Skills = append(input.Skills, trimmed)
			}
		}
	}
	if salary := a.prompt("salary (blank to skip)"); salary != "" {
		value, err := strconv.ParseFloat(salary, 64)
		if err != nil {
			return fmt.Errorf("invalid salary: %w", err)
		}
		input.Salary = &value
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	job, err := a.client.CreateJob(ctx, a.controller.Session().Token, input)
	if err != nil {
		return err
	}
	fmt.Printf("job posted: %s\n", job.ID)
	a.controller.Back()
	return nil
}

func (a *app) updateProfile(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: update <name|college|company|phone>")
	}
	field := strings.ToLower(args[0])
	value := a.prompt(field)
	update := apiclient.ProfileUpdate{}
	switch field {
	case "name":
		update.Name = &value
	case "college":
		update.College = &value
	case "company":
		update.Company = &value
	case "phone":
		update.Phone = &value
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	user, err := a.client.UpdateProfile(ctx, a.controller.Session().Token, update)
	if err != nil {
		return err
	}
	a.controller.UpdateUser(user)
	fmt.Println("profile updated")
	return nil
}

func (a *app) showRecommendations() error {
	skills := strings.Split(a.prompt("your skills (comma separated)"), ",")
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	jobs, err := a.client.RecommendedJobs(ctx, a.controller.Session().Token, skills)
	if err != nil {
		return err
	}
	a.controller.ShowResults(ui.SearchQuery{Page: 1}, jobs)
	return nil
}

func (a *app) listApplicants(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: applicants <job-id>")
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	applications, err := a.client.ListApplicationsByJob(ctx, a.controller.Session().Token, args[0])
	if err != nil {
		return err
	}
	if len(applications) == 0 {
		fmt.Println("no applications yet")
		return nil
	}
	for _, application := range applications {
		fmt.Printf("%s\t%s\t%s\t%s\n", application.Name, application.Email, application.Mobile, application.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func (a *app) prompt(label string) string {
	fmt.Printf("%s: ", label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *app) promptDefault(label, fallback string) string {
	if fallback != "" {
		fmt.Printf("%s [%s]: ", label, fallback)
	} else {
		fmt.Printf("%s: ", label)
	}
	if !a.in.Scan() {
		return fallback
	}
	if value := strings.TrimSpace(a.in.Text()); value != "" {
		return value
	}
	return fallback
}

func readPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Print("\n")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(bytes), nil
}

func (a *app) printHelp() {
	fmt.Print(`global:
	search [--skill go] [--location berlin] [--page N]
	login [email] | register | logout
	profile | post | back | quit
job results:
	apply <n> | next | prev
apply / post job:
	submit
profile:
	update <name|college|company|phone> | recommend | applicants <job-id>
`)
}

func loadConfig() (cliConfig, error) {
	path, err := configPath()
	if err != nil {
		return cliConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cliConfig{APIBaseURL: "http://localhost:4000"}, nil
		}
		return cliConfig{}, err
	}
	var cfg cliConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cliConfig{}, err
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:4000"
	}
	return cfg, nil
}

func saveConfig(cfg cliConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func configPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "jobboard", "config.json"), nil
}

func printUsage() {
	fmt.Printf("jobboard %s\n\n", buildVersion)
	fmt.Print(`Usage:
	jobboard [api-base-url]

Starts an interactive session against the JobSphere API. The last
signed-in token is kept in the user config directory and reused until
it expires.
`)
}
