package alerts

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init("")
	}
	return client
}

func enqueue(taskType string, payload any, queue string) error {
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(taskType, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue(queue))
	return err
}

// EnqueueJobOpened fans out a new-job notification to freelancers
func EnqueueJobOpened(jobID, title, clientID string) error {
	return enqueue(TaskJobOpened, JobOpenedPayload{
		JobID: jobID, Title: title, ClientID: clientID, SentAt: time.Now(),
	}, "events")
}

// EnqueueOfferReceived notifies the client that a freelancer made an offer
func EnqueueOfferReceived(offerID, jobID, clientID, freelancerID string, amount float64) error {
	return enqueue(TaskOfferReceived, OfferReceivedPayload{
		OfferID: offerID, JobID: jobID, ClientID: clientID,
		FreelancerID: freelancerID, Amount: amount, SentAt: time.Now(),
	}, "events")
}

// EnqueueOfferAccepted notifies the winning freelancer
func EnqueueOfferAccepted(offerID, jobID, jobTitle, freelancerID string) error {
	return enqueue(TaskOfferAccepted, OfferDecisionPayload{
		OfferID: offerID, JobID: jobID, JobTitle: jobTitle,
		FreelancerID: freelancerID, SentAt: time.Now(),
	}, "events")
}

// EnqueueOfferRejected notifies a freelancer whose offer was rejected
func EnqueueOfferRejected(offerID, jobID, jobTitle, freelancerID string) error {
	return enqueue(TaskOfferRejected, OfferDecisionPayload{
		OfferID: offerID, JobID: jobID, JobTitle: jobTitle,
		FreelancerID: freelancerID, SentAt: time.Now(),
	}, "events")
}

// EnqueueWorkSubmitted notifies the client that work is ready for review
func EnqueueWorkSubmitted(orderID, title, clientID, freelancerID string) error {
	return enqueue(TaskWorkSubmitted, WorkSubmittedPayload{
		OrderID: orderID, Title: title, ClientID: clientID,
		FreelancerID: freelancerID, SentAt: time.Now(),
	}, "events")
}

// EnqueueRevisionRequested notifies the freelancer that changes were requested
func EnqueueRevisionRequested(orderID, title, freelancerID string) error {
	return enqueue(TaskRevisionRequested, RevisionRequestedPayload{
		OrderID: orderID, Title: title, FreelancerID: freelancerID, SentAt: time.Now(),
	}, "events")
}

// EnqueueOrderCompleted notifies the freelancer that the order was approved and paid
func EnqueueOrderCompleted(orderID, title, freelancerID string, amount float64) error {
	return enqueue(TaskOrderCompleted, OrderCompletedPayload{
		OrderID: orderID, Title: title, FreelancerID: freelancerID,
		Amount: amount, SentAt: time.Now(),
	}, "events")
}

// EnqueueOrderCancelled notifies the counterparty that the order was cancelled
func EnqueueOrderCancelled(orderID, title, notifyUserID, actorID string) error {
	return enqueue(TaskOrderCancelled, OrderCancelledPayload{
		OrderID: orderID, Title: title, NotifyID: notifyUserID,
		ActorID: actorID, SentAt: time.Now(),
	}, "events")
}

// EnqueueMessageNew notifies the other chat participant about a new message
func EnqueueMessageNew(chatID, messageID, senderID, recipientID, content string) error {
	return enqueue(TaskMessageNew, MessageNewPayload{
		ChatID: chatID, MessageID: messageID, SenderID: senderID,
		RecipientID: recipientID, Content: content, SentAt: time.Now(),
	}, "events")
}
