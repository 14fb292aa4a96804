package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/hireflow-go/internal/cli/output"
	"github.com/yndnr/hireflow-go/internal/client/services/user"
)

// AuthCommand returns the auth subcommand group.
func AuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in, sign out and inspect the session",
		Subcommands: []*cli.Command{
			{
				Name:  "otp",
				Usage: "Sign in with a one-time code sent by SMS",
				Subcommands: []*cli.Command{
					{
						Name:   "send",
						Usage:  "Send a verification code",
						Flags:  []cli.Flag{phoneFlag()},
						Action: authOTPSend,
					},
					{
						Name:  "verify",
						Usage: "Verify a code and sign in",
						Flags: []cli.Flag{
							phoneFlag(),
							&cli.StringFlag{
								Name:     "code",
								Usage:    "Six digit verification code",
								Required: true,
							},
						},
						Action: authOTPVerify,
					},
				},
			},
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Account password",
						EnvVars:  []string{"HIREFLOW_PASSWORD"},
						Required: true,
					},
				},
				Action: authLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Full name", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Email", Required: true},
					&cli.StringFlag{Name: "phone", Usage: "Phone number in E.164 form", Required: true},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Password, at least 8 characters",
						EnvVars:  []string{"HIREFLOW_PASSWORD"},
						Required: true,
					},
				},
				Action: authRegister,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and forget the session",
				Action: authLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed-in user",
				Action: authWhoami,
			},
			{
				Name:   "status",
				Usage:  "Show whether a session is stored",
				Action: authStatus,
			},
		},
	}
}

func authOTPSend(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.AuthHook
	defer rt.follow(hook.Subscribe, "Sending code")()

	_, err = hook.SendOTP(c.Context, c.String("phone"))
	return err
}

func authOTPVerify(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.AuthHook
	defer rt.follow(hook.Subscribe, "Verifying")()

	u, err := hook.VerifyOTP(c.Context, c.String("phone"), c.String("code"))
	if err != nil {
		return err
	}
	rt.signedOut.Store(false)
	return rt.render(u, userTable(u))
}

func authLogin(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.AuthHook
	defer rt.follow(hook.Subscribe, "Signing in")()

	u, err := hook.Login(c.Context, c.String("email"), c.String("password"))
	if err != nil {
		return err
	}
	rt.signedOut.Store(false)
	return rt.render(u, userTable(u))
}

func authRegister(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.AuthHook
	defer rt.follow(hook.Subscribe, "Creating account")()

	u, err := hook.Register(c.Context, user.RegisterRequest{
		Name:     c.String("name"),
		Email:    c.String("email"),
		Phone:    c.String("phone"),
		Password: c.String("password"),
	})
	if err != nil {
		return err
	}
	rt.signedOut.Store(false)
	return rt.render(u, userTable(u))
}

func authLogout(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	err = rt.client.AuthHook.Logout(c.Context)
	rt.signedOut.Store(true)
	if err != nil {
		rt.log.Debug("logout request failed", "error", err)
	}
	return nil
}

func authWhoami(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.AuthHook
	defer rt.follow(hook.Subscribe, "Loading")()

	u, err := hook.Me(c.Context)
	if err != nil {
		return err
	}
	return rt.render(u, userTable(u))
}

type sessionStatus struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
	Store         string `json:"store"`
}

func authStatus(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}

	st := sessionStatus{
		Authenticated: rt.client.AuthHook.IsAuthenticated(),
		Store:         rt.cfg.Session.Dir,
	}
	if rt.cfg.Session.Memory {
		st.Store = "memory"
	}
	if st.Authenticated {
		st.UserID, _ = rt.client.Store.UserID()
	}

	state := "signed out"
	if st.Authenticated {
		state = "signed in"
	}
	table := &output.Table{}
	table.AddRow("STATUS:", state)
	if st.UserID != "" {
		table.AddRow("USER ID:", st.UserID)
	}
	table.AddRow("STORE:", st.Store)
	return rt.render(st, table)
}

func phoneFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "phone",
		Aliases:  []string{"p"},
		Usage:    "Phone number in E.164 form, e.g. +14155550100",
		Required: true,
	}
}

func userTable(u user.User) *output.Table {
	table := &output.Table{}
	table.AddRow("ID:", u.ID.String())
	table.AddRow("NAME:", u.Name)
	if u.Email != "" {
		table.AddRow("EMAIL:", u.Email)
	}
	if u.Phone != "" {
		table.AddRow("PHONE:", u.Phone)
	}
	if u.Role != "" {
		table.AddRow("ROLE:", u.Role)
	}
	return table
}
