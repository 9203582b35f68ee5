package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/flowviz-labs/flowviz/internal/auth"
	"github.com/flowviz-labs/flowviz/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the FlowViz dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := auth.NewStaticStore(cfg.Users)
		h, err := server.NewHandler(cfg, store)
		if err != nil {
			return err
		}

		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		router := server.Router(h, cfg.AllowedOrigins)

		if store.Empty() {
			log.Printf("no users configured: login is open (add one with 'flowviz user add')")
		}
		log.Printf("FlowViz API listening on %s", addr)
		return http.ListenAndServe(addr, router)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}
