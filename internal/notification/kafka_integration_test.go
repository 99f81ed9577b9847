//go:build integration

package notification_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"residentportal/internal/notification"
	id "residentportal/pkg/domain"
	"residentportal/pkg/testutil/containers"
)

type KafkaSenderSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	client   *kgo.Client
}

func TestKafkaSenderSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSenderSuite))
}

func (s *KafkaSenderSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
	client, err := notification.NewKafkaClient(s.redpanda.Brokers)
	s.Require().NoError(err)
	s.client = client
}

func (s *KafkaSenderSuite) TearDownSuite() {
	s.client.Close()
}

func (s *KafkaSenderSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	topic := "notices-" + uuid.NewString()
	s.Require().NoError(notification.EnsureTopic(ctx, s.client, topic, 1, 1))
	s.Require().NoError(notification.EnsureTopic(ctx, s.client, topic, 1, 1))
}

func (s *KafkaSenderSuite) TestSendPublishesJSON() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topic := "notices-" + uuid.NewString()
	s.Require().NoError(notification.EnsureTopic(ctx, s.client, topic, 1, 1))

	rid := id.ResidentID(uuid.New())
	sender := notification.NewKafkaSender(s.client, topic)
	s.Require().NoError(sender.Send(ctx, notification.NewNotice(rid, nil, time.Now().UTC())))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal(rid.String(), string(records[0].Key))

	var got notification.Notice
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(rid, got.ResidentID)
	s.Equal(notification.TopicPendingReview, got.Type)
}
