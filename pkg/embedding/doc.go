// Package embedding turns face images into vectors through a DeepFace
// compatible "represent" HTTP service.
//
// The service receives the image as a URL or data URI, detects the face with
// the requested detector backend and returns the embedding produced by the
// requested recognition model. Model names are translated to the spelling the
// service expects (FaceNet becomes Facenet) and detector names are sent
// lowercased.
package embedding
