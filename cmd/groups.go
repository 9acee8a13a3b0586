package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vrcfetch/api"
	"vrcfetch/id"
	"vrcfetch/internal"
	"vrcfetch/model"
	"vrcfetch/query"
)

// auditLogPageSize is the largest page the audit log endpoint serves
const auditLogPageSize = 100

var auditPaging paging

var groupCmd = &cobra.Command{
	Use:   "group <GROUP_ID>",
	Short: "Fetch a group by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := id.ParseGroup(args[0])
		if err != nil {
			return err
		}

		client, err := authenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		group, err := api.Query(ctx, client, query.Group{ID: groupID})
		if err != nil {
			return err
		}
		return emit(group, func(s styles) string {
			return s.card(group.Name, []field{
				{"id", group.ID.String()},
				{"code", group.ShortCode + "." + group.Discriminator},
				{"owner", group.OwnerID.String()},
				{"members", fmt.Sprintf("%d (%d online)", group.MemberCount, group.OnlineMemberCount)},
				{"privacy", group.Privacy},
				{"join state", group.JoinState},
				{"verified", yesNo(group.IsVerified)},
				{"created", group.CreatedAt},
			})
		})
	},
}

var auditLogsCmd = &cobra.Command{
	Use:   "audit-logs <GROUP_ID>",
	Short: "Fetch a group's audit log",
	Long: `Fetch one page of a group's audit log, or every page with --all.
Requires permission to view the group's audit log.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := id.ParseGroup(args[0])
		if err != nil {
			return err
		}

		client, err := authenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		q := query.GroupAuditLogs{ID: groupID, N: auditPaging.limit, Offset: auditPaging.offset}
		if fetchAll && q.N == 0 {
			q.N = auditLogPageSize
		}
		entries, err := collectPages("audit log entries", fetchAll, func() (page[model.GroupAuditLog], error) {
			logs, err := api.Query(ctx, client, q)
			if err != nil {
				return page[model.GroupAuditLog]{}, err
			}
			q.Offset += len(logs.Results)
			return page[model.GroupAuditLog]{items: logs.Results, total: int64(logs.TotalCount), more: logs.HasNext}, nil
		})
		if err != nil {
			return err
		}

		return emit(entries, func(s styles) string {
			rows := make([][]string, len(entries))
			for i, entry := range entries {
				actor := entry.ActorID.String()
				if entry.ActorDisplayName != nil {
					actor = *entry.ActorDisplayName
				}
				rows[i] = []string{entry.CreatedAt, entry.EventType, actor, entry.Description}
			}
			return s.table("Audit log", []string{"TIME", "EVENT", "ACTOR", "DESCRIPTION"}, rows)
		})
	},
}

var banCmd = &cobra.Command{
	Use:   "ban <GROUP_ID> <USER_ID>",
	Short: "Ban a user from a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMembershipChange(cmd, args, "Banned", func(groupID id.Group, userID id.User) query.Queryable[query.Authentication, model.GroupMember] {
			return query.BanGroupMember{GroupID: groupID, UserID: userID}
		})
	},
}

var unbanCmd = &cobra.Command{
	Use:   "unban <GROUP_ID> <USER_ID>",
	Short: "Lift a user's ban from a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMembershipChange(cmd, args, "Unbanned", func(groupID id.Group, userID id.User) query.Queryable[query.Authentication, model.GroupMember] {
			return query.UnbanGroupMember{GroupID: groupID, UserID: userID}
		})
	},
}

// runMembershipChange parses a group and user ID and sends the operation built from them
func runMembershipChange(cmd *cobra.Command, args []string, verb string,
	build func(id.Group, id.User) query.Queryable[query.Authentication, model.GroupMember]) error {
	groupID, err := id.ParseGroup(args[0])
	if err != nil {
		return err
	}
	userID, err := id.ParseUser(args[1])
	if err != nil {
		return err
	}

	client, err := authenticatedClient()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	member, err := api.Query(ctx, client, build(groupID, userID))
	if err != nil {
		return err
	}
	internal.LogInfo("%s %s in %s", verb, userID, groupID)

	return emit(member, func(s styles) string {
		banned := ""
		if member.BannedAt != nil {
			banned = *member.BannedAt
		}
		return s.card(verb, []field{
			{"group", member.GroupID.String()},
			{"user", member.UserID.String()},
			{"membership", member.MembershipStatus},
			{"banned at", banned},
		})
	})
}

func init() {
	auditLogsCmd.Flags().IntVarP(&auditPaging.limit, "limit", "n", 0, "Entries per page, up to 100 (default chosen by the API)")
	auditLogsCmd.Flags().IntVar(&auditPaging.offset, "offset", 0, "Offset of the first entry")
	auditLogsCmd.Flags().BoolVar(&fetchAll, "all", false, "Fetch every page")

	rootCmd.AddCommand(groupCmd, auditLogsCmd, banCmd, unbanCmd)
}
