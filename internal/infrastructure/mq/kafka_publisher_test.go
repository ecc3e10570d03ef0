package mq

import (
	"reflect"
	"testing"

	"presence_chat_server/internal/config"
)

func TestSplitBrokers(t *testing.T) {
	got := splitBrokers(" a:9092, ,b:9092")
	want := []string{"a:9092", "b:9092"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitBrokers = %v, want %v", got, want)
	}
}

func TestInitChannelModeIsNoop(t *testing.T) {
	if _, ok := Init(&config.KafkaConfig{MessageMode: "channel"}).(NoopPublisher); !ok {
		t.Fatal("channel mode should not publish to kafka")
	}
}
