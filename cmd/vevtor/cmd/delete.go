package cmd

import (
	"errors"
	"fmt"

	"github.com/graysonrie/vevtor/v1/index"
	"github.com/spf13/cobra"
)

func newDeleteCmd(load loader) *cobra.Command {
	var (
		collection string
		keys       []string
		ids        []uint64
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete points by key or id",
		Long: `Delete points from one collection.

--key takes the textual key a record was indexed under; it is hashed the
same way at index time. --id takes the numeric identity directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(keys) == 0 && len(ids) == 0 {
				return errors.New("nothing to delete: pass --key or --id")
			}
			return withApp(cmd.Context(), load, func(a *app) error {
				var errs []error
				if len(keys) > 0 {
					errs = append(errs, a.svc.DeleteByKeys(cmd.Context(), collection, keys))
				}
				for _, id := range ids {
					errs = append(errs, a.svc.DeleteByID(cmd.Context(), collection, id))
				}
				if err := errors.Join(errs...); err != nil {
					for _, ce := range index.CollectionErrors(err) {
						a.log.Error("Delete failed", ce.Err, map[string]interface{}{"collection": ce.Collection})
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d point(s) from %s\n", len(keys)+len(ids), collection)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "Collection to delete from")
	cmd.Flags().StringSliceVar(&keys, "key", nil, "Textual key of a point (repeatable)")
	cmd.Flags().Uint64SliceVar(&ids, "id", nil, "Numeric id of a point (repeatable)")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}
