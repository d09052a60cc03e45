package lib

import (
	"encoding/json"
	"log"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// TransactionUpdatesTopic carries lifecycle events (confirmed, refunded,
// expired) for downstream consumers; producing is best-effort and never
// blocks a monetary operation.
const TransactionUpdatesTopic = "TransactionUpdates"

func KafkaProduceMessage(clientId string, topic string, payload map[string]any) error {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         clientId,
		"acks":              "all",
	})
	if err != nil {
		log.Printf("Error creating producer: %s\n", err.Error())
		return err
	}

	value, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error serializing payload: %s\n", err.Error())
		return err
	}

	err = p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}, nil)
	if err != nil {
		log.Printf("Error producing message to %s: %s\n", topic, err.Error())
		return err
	}
	return nil
}

// NotifyTransactionUpdate publishes a lifecycle change. Fire and forget.
func NotifyTransactionUpdate(txnID string, status string, amount int64) {
	go func() {
		err := KafkaProduceMessage("TransactionUpdatesProducer", TransactionUpdatesTopic, map[string]any{
			"id":     txnID,
			"status": status,
			"amount": amount,
		})
		if err != nil {
			log.Printf("Error publishing update for transaction [%s]: %s\n", txnID, err.Error())
		}
	}()
}
