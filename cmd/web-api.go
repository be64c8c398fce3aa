package cmd

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zkpipe/stark-verifier-input/adapter"
	"github.com/zkpipe/stark-verifier-input/types"
)

var fAddr string

// webApiCmd represents the conversion service
var webApiCmd = &cobra.Command{
	Use:   "web-api",
	Short: "runs a web server converting annotated proofs into verifier input json",
	Run:   runApi,
}

func healthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "ok",
		"message": "Health check passed",
	}

	c.JSON(http.StatusOK, response)
}

type PrepareRequest struct {
	AnnotatedProof []byte `json:"annotatedProof"`
	FactTopologies []byte `json:"factTopologies"`
}

func prepareInput(codec *adapter.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PrepareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		proof, err := types.ParseAnnotatedProof(req.AnnotatedProof)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var topologies []types.FactTopology
		if len(req.FactTopologies) > 0 {
			topologies, err = types.ParseFactTopologies(req.FactTopologies)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		input, err := codec.Prepare(proof, topologies)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, input)
	}
}

func runApi(cmd *cobra.Command, args []string) {
	codec := adapter.New(log.Logger)
	//gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.GET("/health", healthCheck)
	router.POST("/prepare", prepareInput(codec))
	router.Run(fAddr)
}

func init() {
	rootCmd.AddCommand(webApiCmd)
	webApiCmd.Flags().StringVar(&fAddr, "addr", "0.0.0.0:8010", "listen address for the web api")
}
