package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/breakroster/internal/share"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Invite others to view or edit the roster",
}

var shareCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create a share link and print the invitation email",
	Long: `Create a share link for email and print the invitation to send.

Examples:
  breakroster share create lead@example.com --name "Jordan" --permission edit --days 14
  breakroster share create ops@example.com --template manager --message "Please review Monday."`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		permStr, _ := cmd.Flags().GetString("permission")
		days, _ := cmd.Flags().GetInt("days")
		templateID, _ := cmd.Flags().GetString("template")
		message, _ := cmd.Flags().GetString("message")

		perm, err := share.ParsePermission(permStr)
		if err != nil {
			return err
		}
		link, err := share.Create(cfg.ShareBaseURL, args[0], name, perm, days, time.Now())
		if err != nil {
			return err
		}
		if err := db.InsertShare(cmd.Context(), link); err != nil {
			return err
		}
		log.Info("share link created")

		inv := share.LookupTemplate(templateID).Render(link, cfg.SenderName, message)
		fmt.Printf("Link: %s\nExpires: %s\n\n", link.URL, link.ExpiresAt.Format("2006-01-02"))
		fmt.Printf("To: %s\nSubject: %s\n\n%s\n", inv.To, inv.Subject, inv.Body)
		return nil
	},
}

var shareListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List share links",
	RunE: func(cmd *cobra.Command, args []string) error {
		links, err := db.ListShares(cmd.Context())
		if err != nil {
			return err
		}
		if len(links) == 0 {
			fmt.Println("No share links")
			return nil
		}
		now := time.Now()
		for _, l := range links {
			last := "never"
			if l.LastAccessed != nil {
				last = l.LastAccessed.Format("2006-01-02 15:04")
			}
			fmt.Printf("%s  %-8s %-30s %-11s expires %s | accessed %d (last %s)\n",
				l.ID, l.Status(now), l.Email, l.Permission.Label(),
				l.ExpiresAt.Format("2006-01-02"), l.AccessCount, last)
		}
		return nil
	},
}

var shareRevokeCmd = &cobra.Command{
	Use:   "revoke <id|token>",
	Short: "Deactivate a share link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := db.FindShare(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		link.Revoke()
		if err := db.UpdateShare(cmd.Context(), link); err != nil {
			return err
		}
		fmt.Printf("Revoked link for %s\n", link.Email)
		return nil
	},
}

var shareAccessCmd = &cobra.Command{
	Use:   "access <token>",
	Short: "Record a use of a share link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := db.FindShare(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		now := time.Now()
		if !link.RecordAccess(now) {
			return fmt.Errorf("link is %s", link.Status(now))
		}
		if err := db.UpdateShare(cmd.Context(), link); err != nil {
			return err
		}
		fmt.Printf("Access granted to %s (%s), %d use(s)\n", link.Email, link.Permission.Label(), link.AccessCount)
		return nil
	},
}

var shareTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List invitation templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, t := range share.Templates() {
			fmt.Printf("%-10s %s | %s\n", t.ID, t.Name, t.Subject)
		}
		return nil
	},
}

func init() {
	shareCmd.AddCommand(shareCreateCmd)
	shareCmd.AddCommand(shareListCmd)
	shareCmd.AddCommand(shareRevokeCmd)
	shareCmd.AddCommand(shareAccessCmd)
	shareCmd.AddCommand(shareTemplatesCmd)

	shareCreateCmd.Flags().StringP("name", "n", "", "Recipient name")
	shareCreateCmd.Flags().StringP("permission", "p", string(share.PermissionView), "Permission: view, edit, admin")
	shareCreateCmd.Flags().IntP("days", "d", 7, "Days until the link expires")
	shareCreateCmd.Flags().StringP("template", "t", "default", "Email template: default, manager, supervisor")
	shareCreateCmd.Flags().StringP("message", "m", "", "Custom message for the email")
}
