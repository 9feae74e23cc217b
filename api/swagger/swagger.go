package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Companion API",
        "description": "Free classroom finder, course catalog and personal timetable.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {
            "name": "Rooms",
            "description": "Free and nearest classrooms"
        },
        {
            "name": "Buildings",
            "description": "Building markers"
        },
        {
            "name": "Courses",
            "description": "Published course catalog"
        },
        {
            "name": "Timetable",
            "description": "Personal timetable per device"
        },
        {
            "name": "Ops",
            "description": "Instrumentation"
        }
    ],
    "paths": {
        "/rooms/free": {
            "get": {
                "tags": [
                    "Rooms"
                ],
                "summary": "List free classrooms",
                "parameters": [
                    {
                        "name": "day",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Weekday mon..sun, defaults to today"
                    },
                    {
                        "name": "time",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Start time HH:MM, defaults to now"
                    },
                    {
                        "name": "duration",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Window length such as 2h, 90m or 1h30m"
                    },
                    {
                        "name": "building",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Building name"
                    },
                    {
                        "name": "lat",
                        "in": "query",
                        "type": "number",
                        "required": false,
                        "description": "Latitude"
                    },
                    {
                        "name": "lng",
                        "in": "query",
                        "type": "number",
                        "required": false,
                        "description": "Longitude"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid day or time",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/rooms/nearest": {
            "get": {
                "tags": [
                    "Rooms"
                ],
                "summary": "Nearest free classroom",
                "parameters": [
                    {
                        "name": "day",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Weekday mon..sun, defaults to today"
                    },
                    {
                        "name": "time",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Start time HH:MM, defaults to now"
                    },
                    {
                        "name": "duration",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Window length such as 2h, 90m or 1h30m"
                    },
                    {
                        "name": "lat",
                        "in": "query",
                        "type": "number",
                        "required": false,
                        "description": "Latitude"
                    },
                    {
                        "name": "lng",
                        "in": "query",
                        "type": "number",
                        "required": false,
                        "description": "Longitude"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/buildings": {
            "get": {
                "tags": [
                    "Buildings"
                ],
                "summary": "List buildings",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/buildings/{name}/free-rooms": {
            "get": {
                "tags": [
                    "Buildings"
                ],
                "summary": "Free classrooms in one building",
                "parameters": [
                    {
                        "name": "name",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Building name"
                    },
                    {
                        "name": "day",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Weekday mon..sun, defaults to today"
                    },
                    {
                        "name": "time",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Start time HH:MM, defaults to now"
                    },
                    {
                        "name": "duration",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Window length such as 2h, 90m or 1h30m"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Building not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/courses": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "Search courses",
                "parameters": [
                    {
                        "name": "q",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Search term"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/courses/{classId}": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "Get a course",
                "parameters": [
                    {
                        "name": "classId",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Course not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": [
                    "Timetable"
                ],
                "summary": "List personal classes",
                "parameters": [
                    {
                        "name": "X-Device-ID",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "Installation identifier owning the timetable"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Add a class",
                "parameters": [
                    {
                        "name": "X-Device-ID",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "Installation identifier owning the timetable"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateClassRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Overlaps an existing class",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetable/courses/{classId}": {
            "post": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Add a catalog course",
                "parameters": [
                    {
                        "name": "X-Device-ID",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "Installation identifier owning the timetable"
                    },
                    {
                        "name": "classId",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Course not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Overlaps an existing class",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetable/conflicts": {
            "post": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Check schedules against the timetable",
                "parameters": [
                    {
                        "name": "X-Device-ID",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "Installation identifier owning the timetable"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ConflictCheckRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetable/{id}": {
            "delete": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Remove a class",
                "parameters": [
                    {
                        "name": "X-Device-ID",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "Installation identifier owning the timetable"
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "404": {
                        "description": "Class not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetable/next": {
            "get": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Next upcoming class",
                "parameters": [
                    {
                        "name": "X-Device-ID",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "Installation identifier owning the timetable"
                    },
                    {
                        "name": "day",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Weekday override"
                    },
                    {
                        "name": "time",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Time override HH:MM"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/timetable/export": {
            "get": {
                "tags": [
                    "Timetable"
                ],
                "summary": "Export the timetable",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "X-Device-ID",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "Installation identifier owning the timetable"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "csv (default) or pdf"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": [
                    "Ops"
                ],
                "summary": "Instrumentation summary",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "ScheduleEntry": {
            "type": "object",
            "required": [
                "day",
                "start_time",
                "end_time"
            ],
            "properties": {
                "day": {
                    "type": "string",
                    "example": "mon"
                },
                "start_time": {
                    "type": "string",
                    "example": "09:00"
                },
                "end_time": {
                    "type": "string",
                    "example": "10:15"
                }
            }
        },
        "CreateClassRequest": {
            "type": "object",
            "required": [
                "name",
                "schedules"
            ],
            "properties": {
                "name": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "schedules": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/ScheduleEntry"
                    }
                }
            }
        },
        "ConflictCheckRequest": {
            "type": "object",
            "required": [
                "schedules"
            ],
            "properties": {
                "schedules": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/ScheduleEntry"
                    }
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "details": {
                    "type": "object"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
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
