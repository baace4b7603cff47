package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/genorisk/genorisk/internal/clinvar"
	"github.com/genorisk/genorisk/internal/regulome"
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load reference tables into the local databases",
	}

	cmd.AddCommand(newLoadClinVarCmd())
	cmd.AddCommand(newLoadVariantSummaryCmd())
	cmd.AddCommand(newLoadRegulomeCmd())

	return cmd
}

func newLoadClinVarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clinvar <csv-file>",
		Short: "Load the authoritative ClinVar table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := clinvar.Open(viper.GetString("data.clinvar_db"))
			if err != nil {
				return fmt.Errorf("open clinvar store: %w", err)
			}
			defer store.Close()

			if err := store.LoadClinVar(args[0]); err != nil {
				return err
			}
			primary, secondary, err := store.Counts()
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %d clinvar rows (%d fallback rows present)\n", primary, secondary)
			return nil
		},
	}
}

func newLoadVariantSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variant-summary <csv-file>",
		Short: "Load the lower-confidence fallback table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := clinvar.Open(viper.GetString("data.clinvar_db"))
			if err != nil {
				return fmt.Errorf("open clinvar store: %w", err)
			}
			defer store.Close()

			if err := store.LoadVariantSummary(args[0]); err != nil {
				return err
			}
			primary, secondary, err := store.Counts()
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %d fallback rows (%d clinvar rows present)\n", secondary, primary)
			return nil
		},
	}
}

func newLoadRegulomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regulome <csv-file>",
		Short: "Load the regulatory score table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := regulome.Open(viper.GetString("data.regulome_db"))
			if err != nil {
				return fmt.Errorf("open regulome store: %w", err)
			}
			defer store.Close()

			if err := store.Load(args[0]); err != nil {
				return err
			}
			count, err := store.Count()
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %d regulome rows\n", count)
			return nil
		},
	}
}
