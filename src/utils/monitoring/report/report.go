package report

type Report struct {
	Run            *RunReport            `json:"run,omitempty"`
	Gateway        *GatewayReport        `json:"gateway,omitempty"`
	Oracle         *OracleReport         `json:"oracle,omitempty"`
	Relay          *RelayReport          `json:"relay,omitempty"`
	RedisPublisher *RedisPublisherReport `json:"redis_publisher,omitempty"`
	Syncmon        *SyncmonReport        `json:"syncmon,omitempty"`
}
