package validators

import "go.mongodb.org/mongo-driver/bson"

var SeasonalRateValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_id",
			"name",
			"start_date",
			"end_date",
			"rate_type",
			"rate_value",
			"active",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"rate_type": bson.M{
				"bsonType": "string",
				"enum":     []string{"fixed", "percentage"},
			},

			"rate_value": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"priority": bson.M{
				"bsonType": "int",
			},

			"active": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
