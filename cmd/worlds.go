package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vrcfetch/api"
	"vrcfetch/id"
	"vrcfetch/model"
	"vrcfetch/query"
)

var (
	worldsPaging paging
	worldsFilter query.ActiveWorlds
	worldsOrder  string
	featured     bool
)

var worldCmd = &cobra.Command{
	Use:   "world <WORLD_ID>",
	Short: "Fetch a world by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		worldID, err := id.ParseWorld(args[0])
		if err != nil {
			return err
		}

		client, err := authenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		world, err := api.Query(ctx, client, query.World{ID: worldID})
		if err != nil {
			return err
		}
		return emit(world, func(s styles) string { return worldCard(s, world) })
	},
}

var worldsCmd = &cobra.Command{
	Use:   "worlds",
	Short: "List worlds that currently have players",
	Long: `List active worlds. Filters that are not given are left out of the request.

Examples:
  vrcfetch worlds --sort popularity --limit 20
  vrcfetch worlds --featured=true --tag system_approved --format text`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := activeWorldsQuery(cmd)
		if err != nil {
			return err
		}

		client, err := authenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		worlds, err := api.Query(ctx, client, q)
		if err != nil {
			return err
		}

		return emit(worlds, func(s styles) string {
			rows := make([][]string, len(worlds))
			for i, w := range worlds {
				rows[i] = []string{w.Name, w.ID.String(), w.AuthorName, fmt.Sprint(w.Occupants), fmt.Sprint(w.Favorites)}
			}
			return s.table("Active worlds", []string{"NAME", "ID", "AUTHOR", "PLAYERS", "FAVORITES"}, rows)
		})
	},
}

var instanceCmd = &cobra.Command{
	Use:   "instance <WORLD_ID:INSTANCE_ID>",
	Short: "Fetch a world instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location, err := id.ParseWorldInstance(args[0])
		if err != nil {
			return err
		}

		client, err := authenticatedClient()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		instance, err := api.Query(ctx, client, query.Instance{ID: location})
		if err != nil {
			return err
		}
		return emit(instance, func(s styles) string { return instanceCard(s, instance) })
	},
}

// activeWorldsQuery assembles the listing query from the worlds flags
func activeWorldsQuery(cmd *cobra.Command) (query.ActiveWorlds, error) {
	q := worldsFilter
	q.Pagination = query.Pagination{N: worldsPaging.limit, Offset: worldsPaging.offset}

	switch worldsOrder {
	case "", string(query.Ascending), string(query.Descending):
		q.Order = query.Order(worldsOrder)
	default:
		return q, fmt.Errorf("invalid order %q: use ascending or descending", worldsOrder)
	}

	if cmd.Flags().Changed("featured") {
		value := featured
		q.Featured = &value
	}
	return q, nil
}

func worldCard(s styles, world model.World) string {
	platforms := make([]string, 0, len(world.UnityPackages))
	for _, pkg := range world.UnityPackages {
		platforms = append(platforms, pkg.Platform)
	}

	return s.card(world.Name, []field{
		{"id", world.ID.String()},
		{"author", fmt.Sprintf("%s (%s)", world.AuthorName, world.AuthorID)},
		{"release", string(world.ReleaseStatus)},
		{"capacity", fmt.Sprintf("%d (recommended %d)", world.Capacity, world.RecommendedCapacity)},
		{"occupants", fmt.Sprintf("%d public, %d private", world.PublicOccupants, world.PrivateOccupants)},
		{"visits", fmt.Sprint(world.Visits)},
		{"favorites", fmt.Sprint(world.Favorites)},
		{"platforms", strings.Join(platforms, ", ")},
		{"tags", strings.Join(world.Tags, ", ")},
		{"updated", world.UpdatedAt},
	})
}

func instanceCard(s styles, instance model.Instance) string {
	creator := ""
	if c, ok := instance.Creator(); ok {
		creator = c.String()
	}

	title := instance.ID.String()
	if instance.Name != "" {
		title = fmt.Sprintf("%s (#%s)", title, instance.Name)
	}

	return s.card(title, []field{
		{"world", instance.WorldID.String()},
		{"privacy", string(instance.Privacy)},
		{"region", string(instance.Region)},
		{"users", fmt.Sprintf("%d/%d", instance.UserCount, instance.Capacity)},
		{"pc", fmt.Sprint(instance.Platforms.Windows)},
		{"android", fmt.Sprint(instance.Platforms.Android)},
		{"full", yesNo(instance.Full)},
		{"creator", creator},
	})
}

func init() {
	addPagingFlags(worldsCmd, &worldsPaging, query.DefaultPageSize)
	flags := worldsCmd.Flags()
	flags.StringVar((*string)(&worldsFilter.Sort), "sort", string(query.DefaultWorldsSort), "Sort key, e.g. heat, popularity, favorites, random")
	flags.StringVar(&worldsOrder, "order", string(query.Descending), "Sort order: ascending or descending")
	flags.BoolVar(&featured, "featured", false, "Only featured (true) or non-featured (false) worlds")
	flags.StringVar((*string)(&worldsFilter.ReleaseStatus), "release-status", "", "Release status: public, private, hidden or all")
	flags.StringVar(&worldsFilter.Search, "search", "", "Search term")
	flags.StringVar(&worldsFilter.Tag, "tag", "", "Comma separated tags the worlds must have")
	flags.StringVar(&worldsFilter.NoTag, "notag", "", "Comma separated tags the worlds must not have")
	flags.StringVar(&worldsFilter.MaxUnityVersion, "max-unity-version", "", "Maximum Unity version")
	flags.StringVar(&worldsFilter.MinUnityVersion, "min-unity-version", "", "Minimum Unity version")
	flags.StringVar(&worldsFilter.Platform, "platform", "", "Platform, e.g. standalonewindows or android")

	rootCmd.AddCommand(worldCmd, worldsCmd, instanceCmd)
}
