package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/krishi-shayak/mandi-prices/internal/mandi"
)

// newPricesCmd creates the 'prices' subcommand for one-shot fetches.
func newPricesCmd() *cobra.Command {
	var (
		state    string
		district string
		crop     string
		mockOnly bool
	)

	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Fetches crop prices once and prints them",
		Long: `Fetches current mandi prices for a state (optionally filtered by
district and crop) and prints the result. With --mock-only the real portals
are skipped and synthetic data is returned immediately.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			var mockPtr *bool
			if cmd.Flags().Changed("mock-only") {
				mockPtr = &mockOnly
			}

			resp := buildFetcher(st).GetCropPricesSync(state, district, crop, mockPtr)
			printResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "state name, e.g. Delhi (required)")
	cmd.Flags().StringVar(&district, "district", "", "district filter")
	cmd.Flags().StringVar(&crop, "crop", "", "crop filter, e.g. Wheat")
	cmd.Flags().BoolVar(&mockOnly, "mock-only", false, "skip real sources, use synthetic data")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}

func printResponse(w io.Writer, resp mandi.PriceResponse) {
	fmt.Fprintf(w, "Success:    %v\n", resp.Success)
	fmt.Fprintf(w, "Count:      %d\n", resp.Count)
	fmt.Fprintf(w, "State:      %s\n", resp.State)
	fmt.Fprintf(w, "District:   %s\n", orAll(resp.District))
	fmt.Fprintf(w, "Crop:       %s\n", orAll(resp.CropName))
	fmt.Fprintf(w, "Fetched at: %s\n", resp.FetchedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Message:    %s\n", resp.Message)

	for i, rec := range resp.Data {
		fmt.Fprintf(w, "\n%d. %s - %s\n", i+1, rec.CropName, rec.MarketName)
		fmt.Fprintf(w, "   District: %s, State: %s\n", rec.District, rec.State)
		fmt.Fprintf(w, "   Min: Rs %.2f/%s  Max: Rs %.2f/%s  Modal: Rs %.2f/%s\n",
			rec.MinPrice, rec.Unit, rec.MaxPrice, rec.Unit, rec.ModalPrice, rec.Unit)
		fmt.Fprintf(w, "   Date: %s\n", rec.PriceDate)
	}
}

func orAll(s string) string {
	if s == "" {
		return "All"
	}
	return s
}
