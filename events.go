package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"minitweet/feed"
)

const publishTimeout = 5 * time.Second

// Event is published after a tweet is posted or liked.
type Event struct {
	Type    string      `json:"type"`
	TweetID int         `json:"tweet_id"`
	Tweet   *feed.Tweet `json:"tweet,omitempty"`
}

const (
	eventTweetPosted = "tweet_posted"
	eventTweetLiked  = "tweet_liked"
)

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// RabbitPublisher sends events as JSON to a durable queue.
type RabbitPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewRabbitPublisher(cfg AMQPConfig) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &RabbitPublisher{conn: conn, channel: ch, queue: q.Name}, nil
}

func (r *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return r.channel.PublishWithContext(ctx,
		"",      // default exchange
		r.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         e.Type,
			Body:         body,
		})
}

func (r *RabbitPublisher) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// publishingFeed announces successful posts and likes. A failed publish is
// logged and does not fail the operation.
type publishingFeed struct {
	feed.Feed
	pub    Publisher
	logger *slog.Logger
}

func (p *publishingFeed) PostTweet(username, message string) (feed.Tweet, error) {
	t, err := p.Feed.PostTweet(username, message)
	if err != nil {
		return t, err
	}
	p.publish(Event{Type: eventTweetPosted, TweetID: t.ID, Tweet: &t})
	return t, nil
}

func (p *publishingFeed) LikeByID(id int) error {
	if err := p.Feed.LikeByID(id); err != nil {
		return err
	}
	p.publish(Event{Type: eventTweetLiked, TweetID: id})
	return nil
}

func (p *publishingFeed) publish(e Event) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.pub.Publish(ctx, e); err != nil {
		p.logger.Error("failed to publish event", "type", e.Type, "tweet_id", e.TweetID, "error", err)
	}
}
