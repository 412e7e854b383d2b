/*
 * Copyright 2025 The Scriptorium Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package mongo implements the database interface using MongoDB.
package mongo

import (
	"context"
	"fmt"
	"strings"
	gotime "time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/scriptorium-team/scriptorium/api/types"
	"github.com/scriptorium-team/scriptorium/server/backend/database"
	"github.com/scriptorium-team/scriptorium/server/logging"
)

// Client is a client that connects to MongoDB and reads or saves document
// records.
type Client struct {
	config *Config
	client *mongo.Client
}

// Dial creates an instance of Client and dials the given MongoDB.
func Dial(conf *Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.ParseConnectionTimeout())
	defer cancel()

	clientOptions := options.Client().ApplyURI(conf.ConnectionURI)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, conf.ParsePingTimeout())
	defer cancel()

	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	if err := ensureIndexes(ctx, client.Database(conf.Database)); err != nil {
		return nil, err
	}

	logging.DefaultLogger().Infof("MongoDB connected, URI: %s, DB: %s", conf.ConnectionURI, conf.Database)

	return &Client{
		config: conf,
		client: client,
	}, nil
}

// Close all resources of this client.
func (c *Client) Close() error {
	if err := c.client.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("close mongo client: %w", err)
	}

	return nil
}

// Ping checks connectivity with MongoDB.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", database.ErrStoreUnavailable, err)
	}
	return nil
}

// CreateDocument persists the given record. It fails with
// ErrDocumentIDConflict if a record with the same id exists and with
// ErrDocumentContentConflict if a record with the same title, author and
// content prefix exists. The application-level checks are advisory; the
// unique index on document_id is the authoritative backstop.
func (c *Client) CreateDocument(
	ctx context.Context,
	record *types.DocumentRecord,
) (string, error) {
	count, err := c.collection(ColDocuments).CountDocuments(ctx, bson.M{
		"document_id": record.DocumentID,
	})
	if err != nil {
		return "", fmt.Errorf("count documents by id: %w", err)
	}
	if count > 0 {
		return "", database.ErrDocumentIDConflict
	}

	if err := c.checkContentConflict(ctx, record); err != nil {
		return "", err
	}

	result, err := c.collection(ColDocuments).InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", database.ErrDocumentIDConflict
		}

		return "", fmt.Errorf("create document: %w", err)
	}

	return result.InsertedID.(bson.ObjectID).Hex(), nil
}

// checkContentConflict looks for an existing record with the same title and
// author whose stored text begins with the prefix of the new record's text.
// The prefix is matched literally: pattern-special characters are escaped
// before being used in the query.
func (c *Client) checkContentConflict(ctx context.Context, record *types.DocumentRecord) error {
	prefix := database.ContentPrefix(record.ContentText)

	result := c.collection(ColDocuments).FindOne(ctx, bson.M{
		"attribution.title":  record.Attribution.Title,
		"attribution.author": record.Attribution.Author,
		"content_text": bson.M{"$regex": bson.Regex{
			Pattern: "^" + escapeRegex(prefix),
		}},
	})
	if result.Err() == mongo.ErrNoDocuments {
		return nil
	}
	if result.Err() != nil {
		return fmt.Errorf("find duplicate content: %w", result.Err())
	}

	return database.ErrDocumentContentConflict
}

// FindDocuments returns up to limit records matching the filter, skipping
// offset records, newest first.
func (c *Client) FindDocuments(
	ctx context.Context,
	filter database.Filter,
	limit int,
	offset int,
) ([]*types.DocumentRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := c.collection(ColDocuments).Find(ctx, filterToBSON(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}

	var records []*types.DocumentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}

	return records, nil
}

// FindDocumentByID finds the document of the given id.
func (c *Client) FindDocumentByID(
	ctx context.Context,
	id types.ID,
) (*types.DocumentRecord, error) {
	result := c.collection(ColDocuments).FindOne(ctx, bson.M{
		"document_id": id,
	})
	if result.Err() == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%s: %w", id, database.ErrDocumentNotFound)
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("find document: %w", result.Err())
	}

	record := &types.DocumentRecord{}
	if err := result.Decode(record); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	return record, nil
}

// UpdateDocument merges the given fields into the stored record. The merge,
// the updated_at refresh and the version increment are applied in a single
// FindOneAndUpdate so the version is bumped atomically with the merge.
func (c *Client) UpdateDocument(
	ctx context.Context,
	id types.ID,
	fields *types.UpdatableDocumentFields,
) (*types.DocumentRecord, error) {
	result := c.collection(ColDocuments).FindOneAndUpdate(
		ctx,
		bson.M{"document_id": id},
		bson.M{
			"$set": patchToBSON(fields),
			"$inc": bson.M{"version": 1},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%s: %w", id, database.ErrDocumentNotFound)
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("update document: %w", result.Err())
	}

	record := &types.DocumentRecord{}
	if err := result.Decode(record); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	return record, nil
}

// DeleteDocument removes the record of the given id. Deleting an absent
// record is not an error.
func (c *Client) DeleteDocument(ctx context.Context, id types.ID) error {
	_, err := c.collection(ColDocuments).DeleteOne(ctx, bson.M{
		"document_id": id,
	})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	return nil
}

// CollectionStats returns aggregate statistics over the whole collection.
func (c *Client) CollectionStats(ctx context.Context) (*types.CollectionStats, error) {
	cursor, err := c.collection(ColDocuments).Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":              nil,
			"total_documents":  bson.M{"$sum": 1},
			"total_characters": bson.M{"$sum": "$training_metadata.character_count"},
			"total_tokens":     bson.M{"$sum": "$training_metadata.token_count"},
			"average_weight":   bson.M{"$avg": "$training_metadata.weighting"},
			"content_types":    bson.M{"$addToSet": "$attribution.content_type"},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}

	var results []struct {
		TotalDocuments  int64               `bson:"total_documents"`
		TotalCharacters int64               `bson:"total_characters"`
		TotalTokens     int64               `bson:"total_tokens"`
		AverageWeight   float64             `bson:"average_weight"`
		ContentTypes    []types.ContentType `bson:"content_types"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}

	if len(results) == 0 {
		return &types.CollectionStats{
			ContentTypes: []types.ContentType{},
		}, nil
	}

	return &types.CollectionStats{
		TotalDocuments:  results[0].TotalDocuments,
		TotalCharacters: results[0].TotalCharacters,
		TotalTokens:     results[0].TotalTokens,
		AverageWeight:   results[0].AverageWeight,
		ContentTypes:    results[0].ContentTypes,
	}, nil
}

func (c *Client) collection(
	name string,
	opts ...options.Lister[options.CollectionOptions],
) *mongo.Collection {
	return c.client.
		Database(c.config.Database).
		Collection(name, opts...)
}

// filterToBSON converts a find filter to its query document.
func filterToBSON(filter database.Filter) bson.M {
	query := bson.M{}
	if filter.Author != "" {
		query["attribution.author"] = filter.Author
	}
	if filter.ContentType != "" {
		query["attribution.content_type"] = filter.ContentType
	}
	if filter.ProcessingStatus != "" {
		query["training_metadata.processing_status"] = filter.ProcessingStatus
	}
	return query
}

// patchToBSON converts the updatable fields to a $set document. updated_at
// is always refreshed as part of the same update.
func patchToBSON(fields *types.UpdatableDocumentFields) bson.M {
	set := bson.M{"updated_at": gotime.Now()}

	if fields.Title != nil {
		set["attribution.title"] = *fields.Title
	}
	if fields.Author != nil {
		set["attribution.author"] = *fields.Author
	}
	if fields.Publisher != nil {
		set["attribution.publisher"] = *fields.Publisher
	}
	if fields.TopicCategory != nil {
		set["content_metadata.topic_category"] = *fields.TopicCategory
	}
	if fields.Genre != nil {
		set["content_metadata.genre"] = *fields.Genre
	}
	if fields.ProcessingStatus != nil {
		set["training_metadata.processing_status"] = *fields.ProcessingStatus
	}
	if fields.Weighting != nil {
		set["training_metadata.weighting"] = *fields.Weighting
	}

	return set
}

// escapeRegex escapes special characters by putting a backslash in front of
// them so that the prefix is matched literally, not as a pattern.
func escapeRegex(str string) string {
	special := `\.+*?()|[]{}^$`
	if !strings.ContainsAny(str, special) {
		return str
	}

	sb := strings.Builder{}
	for _, r := range str {
		if strings.ContainsRune(special, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
