package domain

// KeyPrefix namespaces every key and index this service writes.
const KeyPrefix = "profrag:"

// Key spaces and index names for the professor directory and the review vectors.
const (
	ProfessorKeyPrefix = KeyPrefix + "prof:"
	ProfessorIndex     = KeyPrefix + "prof:idx"
	ReviewKeyPrefix    = KeyPrefix + "review:"
	ReviewIndex        = KeyPrefix + "review:idx"
)

// Hash field names shared by ingestion and search.
const (
	FieldProfessorID = "professor_id"
	FieldName        = "name"
	FieldDepartment  = "department"
	FieldSubject     = "subject"
	FieldRating      = "rating"
	FieldReview      = "review"
	FieldVector      = "__vector"
	FieldVectorScore = "__vector_score"
)
