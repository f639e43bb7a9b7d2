package cmd

import (
	"encoding/json"
	"strings"

	"github.com/graysonrie/vevtor/v1/indexable"
	"github.com/graysonrie/vevtor/v1/service"
	"github.com/spf13/cobra"
)

// searchResult is one line of "vevtor search" output.
type searchResult struct {
	ID      uint64            `json:"id"`
	Score   float32           `json:"score"`
	Payload indexable.Payload `json:"payload"`
}

// rawPayload passes payloads through untouched.
var rawPayload indexable.Decoder[indexable.Payload] = func(p indexable.Payload) (indexable.Payload, error) {
	return p, nil
}

func newSearchCmd(load loader) *cobra.Command {
	var (
		collection string
		topK       uint64
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search a collection by text",
		Long:  "Search embeds the query and prints the best matches as JSON lines, best first.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := service.SearchQuery{Collection: collection, Query: strings.Join(args, " ")}
			return withApp(cmd.Context(), load, func(a *app) error {
				hits, err := service.SearchHits(cmd.Context(), a.svc, q, topK, rawPayload)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				for _, h := range hits {
					if err := enc.Encode(searchResult{ID: h.ID, Score: h.Score, Payload: h.Item}); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "Collection to search")
	cmd.Flags().Uint64VarP(&topK, "top-k", "k", 10, "Maximum number of results")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}
