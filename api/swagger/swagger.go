package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "University Records API",
        "description": "Academic records, grading and tuition service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Students", "description": "Student registry"},
        {"name": "Courses", "description": "Course catalog"},
        {"name": "Disciplines", "description": "Discipline catalog"},
        {"name": "Classes", "description": "Class offerings"},
        {"name": "Professors", "description": "Faculty registry"},
        {"name": "Enrollments", "description": "Enrollment lifecycle and grading"},
        {"name": "Tuition", "description": "Monthly tuition statements"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "courseCode", "in": "query", "type": "integer"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/students/{matricula}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student detail",
                "parameters": [
                    {"name": "matricula", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [
                    {"name": "matricula", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "parameters": [
                    {"name": "matricula", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Enrollments still reference the student"}
                }
            }
        },
        "/students/{matricula}/tuition": {
            "get": {
                "tags": ["Tuition"],
                "summary": "Monthly tuition statement",
                "parameters": [
                    {"name": "matricula", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{matricula}/tuition/statement": {
            "get": {
                "tags": ["Tuition"],
                "summary": "Download tuition statement",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "matricula", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Code already taken"}
                }
            }
        },
        "/courses/{code}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Courses"],
                "summary": "Update course",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Students or disciplines still reference the course"}
                }
            }
        },
        "/courses/{code}/stats": {
            "get": {
                "tags": ["Courses"],
                "summary": "Course dependents summary",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/disciplines": {
            "get": {
                "tags": ["Disciplines"],
                "summary": "List disciplines",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "courseCode", "in": "query", "type": "integer"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Disciplines"],
                "summary": "Create discipline",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDisciplineRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/disciplines/{code}": {
            "get": {
                "tags": ["Disciplines"],
                "summary": "Get discipline",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Disciplines"],
                "summary": "Update discipline",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDisciplineRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Disciplines"],
                "summary": "Delete discipline",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Classes still offer the discipline"}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes",
                "parameters": [
                    {"name": "disciplineCode", "in": "query", "type": "integer"},
                    {"name": "professorId", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "term", "in": "query", "type": "integer"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/classes/{code}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Get class",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Classes"],
                "summary": "Update class",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateClassRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete class",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Enrollments still reference the class"}
                }
            }
        },
        "/professors": {
            "get": {
                "tags": ["Professors"],
                "summary": "List professors",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Professors"],
                "summary": "Create professor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateProfessorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/professors/{id}": {
            "get": {
                "tags": ["Professors"],
                "summary": "Get professor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Professors"],
                "summary": "Update professor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfessorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Professors"],
                "summary": "Delete professor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Classes still assign the professor"}
                }
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments",
                "parameters": [
                    {"name": "studentMatricula", "in": "query", "type": "string"},
                    {"name": "classCode", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll student into class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Already enrolled"}
                }
            }
        },
        "/enrollments/{matricula}/{classCode}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Get enrollment",
                "parameters": [
                    {"name": "matricula", "in": "path", "required": true, "type": "string"},
                    {"name": "classCode", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Cancel enrollment",
                "parameters": [
                    {"name": "matricula", "in": "path", "required": true, "type": "string"},
                    {"name": "classCode", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Cancelled"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/enrollments/{matricula}/{classCode}/grades": {
            "put": {
                "tags": ["Enrollments"],
                "summary": "Record scores and absences",
                "parameters": [
                    {"name": "matricula", "in": "path", "required": true, "type": "string"},
                    {"name": "classCode", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateGradesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK with derived status"},
                    "400": {"description": "Scores or absences out of range"},
                    "404": {"description": "Enrollment not found"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RefreshTokenRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "CreateStudentRequest": {
            "type": "object",
            "required": ["full_name", "birth_date", "marital_status", "course_code"],
            "properties": {
                "full_name": {"type": "string"},
                "birth_date": {"type": "string", "format": "date-time"},
                "marital_status": {"type": "string", "enum": ["SINGLE", "MARRIED", "DIVORCED", "WIDOWED"]},
                "phones": {"type": "array", "items": {"type": "string"}},
                "scholarship_pct": {"type": "number"},
                "course_code": {"type": "integer"}
            }
        },
        "UpdateStudentRequest": {
            "type": "object",
            "required": ["full_name", "birth_date", "active", "marital_status", "course_code"],
            "properties": {
                "full_name": {"type": "string"},
                "birth_date": {"type": "string", "format": "date-time"},
                "active": {"type": "boolean"},
                "marital_status": {"type": "string"},
                "phones": {"type": "array", "items": {"type": "string"}},
                "scholarship_pct": {"type": "number"},
                "course_code": {"type": "integer"}
            }
        },
        "CreateCourseRequest": {
            "type": "object",
            "required": ["code", "name"],
            "properties": {
                "code": {"type": "integer", "minimum": 1, "maximum": 9999},
                "name": {"type": "string"},
                "base_tuition": {"type": "number"}
            }
        },
        "UpdateCourseRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "base_tuition": {"type": "number"}
            }
        },
        "CreateDisciplineRequest": {
            "type": "object",
            "required": ["code", "name", "course_code"],
            "properties": {
                "code": {"type": "integer"},
                "name": {"type": "string"},
                "course_code": {"type": "integer"}
            }
        },
        "UpdateDisciplineRequest": {
            "type": "object",
            "required": ["name", "course_code"],
            "properties": {
                "name": {"type": "string"},
                "course_code": {"type": "integer"}
            }
        },
        "CreateClassRequest": {
            "type": "object",
            "required": ["code", "year", "term", "discipline_code", "professor_id"],
            "properties": {
                "code": {"type": "string"},
                "year": {"type": "integer"},
                "term": {"type": "integer", "enum": [1, 2]},
                "discipline_code": {"type": "integer"},
                "professor_id": {"type": "string"}
            }
        },
        "UpdateClassRequest": {
            "type": "object",
            "required": ["year", "term", "discipline_code", "professor_id"],
            "properties": {
                "year": {"type": "integer"},
                "term": {"type": "integer", "enum": [1, 2]},
                "discipline_code": {"type": "integer"},
                "professor_id": {"type": "string"}
            }
        },
        "CreateProfessorRequest": {
            "type": "object",
            "required": ["full_name", "birth_date"],
            "properties": {
                "full_name": {"type": "string"},
                "birth_date": {"type": "string", "format": "date-time"}
            }
        },
        "UpdateProfessorRequest": {
            "type": "object",
            "required": ["full_name", "birth_date", "active"],
            "properties": {
                "full_name": {"type": "string"},
                "birth_date": {"type": "string", "format": "date-time"},
                "active": {"type": "boolean"}
            }
        },
        "EnrollStudentRequest": {
            "type": "object",
            "required": ["student_matricula", "class_code"],
            "properties": {
                "student_matricula": {"type": "string"},
                "class_code": {"type": "string"}
            }
        },
        "UpdateGradesRequest": {
            "type": "object",
            "required": ["score1", "score2", "absences"],
            "properties": {
                "score1": {"type": "number", "minimum": 0, "maximum": 10},
                "score2": {"type": "number", "minimum": 0, "maximum": 10},
                "absences": {"type": "integer", "minimum": 0}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
