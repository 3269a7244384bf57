package repository

import "go.mongodb.org/mongo-driver/mongo/options"

func mongoUpsertAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
}
