package cmd

import (
	"github.com/safetrade/escrow-engine/src/syncmon"
	"github.com/safetrade/escrow-engine/src/utils/bus"
	"github.com/safetrade/escrow-engine/src/utils/logger"
	monitor_syncmon "github.com/safetrade/escrow-engine/src/utils/monitoring/syncmon"
	"github.com/safetrade/escrow-engine/src/utils/task"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <escrow-id>",
	Short: "Follow one escrow, push notifications with a pull fallback",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("watch-cmd")

		monitor := monitor_syncmon.NewMonitor()

		subscriber := bus.NewRedisSubscriber(conf, "watch-subscriber")

		watcher := syncmon.NewWatcher(conf, args[0]).
			WithSubscriber(subscriber).
			WithFetcher(syncmon.NewFetcher(conf)).
			WithMonitor(monitor).
			WithOnUpdate(func(snapshot *syncmon.Snapshot) {
				log.WithField("escrow_id", snapshot.ID).
					WithField("status", snapshot.Status).
					WithField("initiator", snapshot.InitiatorConfirmation).
					WithField("participant", snapshot.ParticipantConfirmation).
					Info("Escrow state")
			})

		controller := task.NewTask(conf, "watch").
			WithSubtask(monitor.Task).
			WithSubtask(subscriber.Task).
			WithSubtask(watcher.Task)

		err = controller.Start()
		if err != nil {
			return
		}

		<-ctx.Done()

		controller.StopWait()

		return
	},
}
