package gameevent

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/tangohub/backend/pkg/pubsub"
	"github.com/tangohub/backend/pkg/xcontext"
)

type Emitter interface {
	Emit(ctx context.Context, userID string, ev Event)
}

type emitter struct {
	publisher     pubsub.Publisher
	snowflakeNode *snowflake.Node
}

func NewEmitter(publisher pubsub.Publisher, snowflakeNode *snowflake.Node) *emitter {
	return &emitter{publisher: publisher, snowflakeNode: snowflakeNode}
}

// Emit publishes the event keyed by user id, so all events of one user land
// on the same partition. Delivery is best effort; a failed publish is logged
// and never fails the gameplay operation that produced it.
func (e *emitter) Emit(ctx context.Context, userID string, ev Event) {
	envelope := Envelope{
		Op:     ev.Op(),
		Seq:    e.snowflakeNode.Generate().Int64(),
		UserID: userID,
		Data:   ev,
	}

	b, err := json.Marshal(envelope)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal %s event: %v", ev.Op(), err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.EventTopic
	err = e.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(userID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish %s event: %v", ev.Op(), err)
	}
}
