package cmd

import (
	"github.com/safetrade/escrow-engine/src/relay"
	"github.com/safetrade/escrow-engine/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(relayCmd)
}

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Bridge database escrow notifications to Redis pub/sub",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := relay.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		<-ctx.Done()

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("relay-cmd")
		log.Debug("Finished relay command")
		return
	},
}
