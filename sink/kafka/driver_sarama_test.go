package kafka

import (
	"context"
	"errors"
	"testing"

	"fileproc/sink"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver_PublishesEncodedEvent(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	ev := sink.Event{RunID: "r1", SourceID: "X", DerivedID: "modified_X", Filepath: "s3://nuufovus/modified_a.txt"}

	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "file-events" {
			return errors.New("wrong topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "modified_X" {
			return errors.New("wrong key " + string(key))
		}
		raw, _ := msg.Value.Encode()
		var got sink.Event
		if err := sink.MsgPack.Unmarshal(raw, &got); err != nil {
			return err
		}
		if got.Filepath != ev.Filepath {
			return errors.New("wrong payload")
		}
		return nil
	})

	a, err := sink.NewAdapter("kafka")
	require.NoError(t, err)
	require.NoError(t, a.Configure(Config{Topic: "file-events", Codec: sink.MsgPack, Producer: sp}))
	require.NoError(t, a.Push(context.Background(), ev))
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}

func TestDriver_SendFailure(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	a, err := sink.NewAdapter("kafka")
	require.NoError(t, err)
	require.NoError(t, a.Configure(Config{Topic: "file-events", Producer: sp}))

	err = a.Push(context.Background(), sink.Event{DerivedID: "modified_X"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, a.Close())
}

func TestDriver_ConfigValidation(t *testing.T) {
	a, err := sink.NewAdapter("kafka")
	require.NoError(t, err)
	assert.Error(t, a.Configure(Config{}))
	assert.Error(t, a.Configure(Config{Topic: "t"}))
	assert.Error(t, a.Configure("kafka"))
}
