package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vrcfetch/api"
	"vrcfetch/id"
	"vrcfetch/internal"
	"vrcfetch/model"
	"vrcfetch/query"
)

// maxConcurrentFetches bounds parallel requests; the rate limiter still paces them
const maxConcurrentFetches = 4

var (
	searchPaging  paging
	friendsPaging paging
	fetchAll      bool
	offlineUsers  bool
)

// paging holds the --limit and --offset flags of one command
type paging struct {
	limit  int
	offset int
}

var userCmd = &cobra.Command{
	Use:   "user <USER_ID>...",
	Short: "Fetch one or more users by ID",
	Long: `Fetch users by ID. Several IDs are fetched concurrently through one
rate limiter and printed in the order given.

Examples:
  vrcfetch user usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469
  vrcfetch user usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469 8JoV9XEdpo`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseUserIDs(args)
		if err != nil {
			return err
		}

		client, err := authenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		users := make([]model.AnyUser, len(ids))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentFetches)
		for i, userID := range ids {
			g.Go(func() error {
				user, err := api.Query(gctx, client, query.User{ID: userID})
				if err != nil {
					return fmt.Errorf("fetch %s: %w", userID, err)
				}
				internal.LogDebug("Fetched %s as %s", userID, user.Kind())
				users[i] = user
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if len(users) == 1 {
			return emit(users[0], func(s styles) string { return anyUserCard(s, users[0]) })
		}
		return emit(users, func(s styles) string {
			cards := make([]string, len(users))
			for i, user := range users {
				cards[i] = anyUserCard(s, user)
			}
			return strings.Join(cards, "\n")
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <DISPLAY_NAME>",
	Short: "Search users by display name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := authenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		users, err := api.Query(ctx, client, query.SearchUsers{
			Search:     args[0],
			Pagination: query.Pagination{N: searchPaging.limit, Offset: searchPaging.offset},
		})
		if err != nil {
			return err
		}

		return emit(users, func(s styles) string {
			rows := make([][]string, len(users))
			for i, u := range users {
				rows[i] = []string{u.DisplayName, u.ID.String(), string(u.Status), yesNo(u.IsFriend)}
			}
			return s.table(fmt.Sprintf("Users matching %q", args[0]), []string{"NAME", "ID", "STATUS", "FRIEND"}, rows)
		})
	},
}

var friendsCmd = &cobra.Command{
	Use:   "friends",
	Short: "List friends of the session's account",
	Long: `List online friends, or offline ones with --offline.

--all keeps requesting pages until a short page is returned.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := authenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		q := query.ListFriends{Limit: friendsPaging.limit, Offset: friendsPaging.offset, Offline: offlineUsers}
		friends, err := collectPages("friends", fetchAll, func() (page[model.Friend], error) {
			items, err := api.Query(ctx, client, q)
			if err != nil {
				return page[model.Friend]{}, err
			}
			next := q.Next()
			full := len(items) >= next.Limit
			q = next
			return page[model.Friend]{items: items, more: full}, nil
		})
		if err != nil {
			return err
		}

		return emit(friends, func(s styles) string {
			rows := make([][]string, len(friends))
			for i, f := range friends {
				rows[i] = []string{f.DisplayName, f.ID.String(), string(f.Status), orDash(f.Location), f.LastLogin.String()}
			}
			return s.table("Friends", []string{"NAME", "ID", "STATUS", "LOCATION", "LAST LOGIN"}, rows)
		})
	},
}

var unfriendCmd = &cobra.Command{
	Use:   "unfriend <USER_ID>",
	Short: "Remove a user from the account's friends",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := id.ParseUser(args[0])
		if err != nil {
			return err
		}

		client, err := authenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		result, err := api.Query(ctx, client, query.Unfriend{ID: userID})
		if err != nil {
			return err
		}
		internal.LogInfo("Unfriended %s", userID)
		return emit(result, func(s styles) string {
			return s.card("Unfriended", []field{{"user", userID.String()}, {"message", result.Success.Message}})
		})
	},
}

func parseUserIDs(args []string) ([]id.User, error) {
	ids := make([]id.User, 0, len(args))
	for _, arg := range args {
		userID, err := id.ParseUser(strings.TrimSpace(arg))
		if err != nil {
			return nil, err
		}
		ids = append(ids, userID)
	}
	return ids, nil
}

func anyUserCard(s styles, user model.AnyUser) string {
	if account, err := user.Account(); err == nil {
		return accountCard(s, account)
	}

	profile := user.Profile()
	fields := []field{
		{"id", profile.ID.String()},
		{"kind", user.Kind().String()},
		{"status", string(profile.Status)},
		{"status text", profile.StatusDescription},
		{"platform", profile.LastPlatform},
		{"bio", profile.Bio},
	}

	if friend, err := user.Friend(); err == nil {
		fields = append(fields,
			field{"location", friend.Location},
			field{"last login", friend.LastLogin.String()})
	}
	if u, err := user.User(); err == nil {
		world := "hidden"
		if w, ok := u.WorldID.Get(); ok {
			world = w.String()
		}
		fields = append(fields,
			field{"friend", yesNo(u.IsFriend)},
			field{"world", world},
			field{"joined", u.DateJoined},
			field{"last login", u.LastLogin.String()})
	}

	return s.card(profile.DisplayName, fields)
}

func addPagingFlags(cmd *cobra.Command, p *paging, defaultSize int) {
	cmd.Flags().IntVarP(&p.limit, "limit", "n", defaultSize, "Number of results per page")
	cmd.Flags().IntVar(&p.offset, "offset", 0, "Offset of the first result")
}

func init() {
	addPagingFlags(searchCmd, &searchPaging, query.DefaultPageSize)

	addPagingFlags(friendsCmd, &friendsPaging, query.DefaultFriendsLimit)
	friendsCmd.Flags().BoolVar(&offlineUsers, "offline", false, "List offline friends instead of online ones")
	friendsCmd.Flags().BoolVar(&fetchAll, "all", false, "Fetch every page")

	rootCmd.AddCommand(userCmd, searchCmd, friendsCmd, unfriendCmd)
}
