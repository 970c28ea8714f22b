package generic

import "go.mongodb.org/mongo-driver/bson/primitive"

// Entity is implemented by models stored through MongoBaseRepository so the
// repository can read back the inserted object id.
type Entity interface {
	GetID() primitive.ObjectID
	SetID(primitive.ObjectID)
}
