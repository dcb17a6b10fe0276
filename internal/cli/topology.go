package cli

import (
	"github.com/spf13/cobra"

	"github.com/shaiso/colorsort/internal/mq"
)

type topologyEntry struct {
	Request  string `json:"request"`
	Response string `json:"response"`
}

// NewTopologyCmd создаёт команду вывода схемы очередей RabbitMQ.
func NewTopologyCmd(outputFn func() *Output) *cobra.Command {
	var requestQueue, responseQueue string

	cmd := &cobra.Command{
		Use:   "topology",
		Short: "Show the RabbitMQ queues used by the workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			out.Describe(mq.TopologyInfo(requestQueue, responseQueue), topologyEntry{
				Request:  requestQueue,
				Response: responseQueue,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&requestQueue, "request-queue", "request", "Queue with file names")
	cmd.Flags().StringVar(&responseQueue, "response-queue", "response", "Queue with classification results")

	return cmd
}
